package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/manifoldhq/manifold/pkg/validation"
)

// manifold-validate runs the manifest validation gate offline so plugin
// authors can check a manifest (and optionally its package archive) before
// submitting to a marketplace.
func main() {
	archivePath := flag.String("archive", "", "Optional path to the plugin .tgz archive to check")
	jsonOutput := flag.Bool("json", false, "Emit the full validation result as JSON")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	raw, err := readManifest(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	result := validation.ValidateManifest(raw)

	if *archivePath != "" {
		data, err := os.ReadFile(*archivePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to read archive: %v\n", err)
			os.Exit(2)
		}
		if archiveResult := validation.ValidateArchive(data); !archiveResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, archiveResult.Errors...)
			result.Manifest = nil
		}
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
	} else {
		printReport(result)
	}

	if !result.Valid {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: manifold-validate [flags] <manifest.json>

Validates a plugin manifest against the canonical schema, reporting the
normalized manifest plus any blocking errors and advisory warnings.

Flags:
`)
	flag.PrintDefaults()
}

func readManifest(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("manifest is not a JSON object: %w", err)
	}
	return raw, nil
}

func printReport(result validation.Result) {
	if result.Valid {
		fmt.Printf("VALID: %s v%s\n", result.Manifest.Name, result.Manifest.Version)
	} else {
		fmt.Println("INVALID")
	}

	for _, e := range result.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}
