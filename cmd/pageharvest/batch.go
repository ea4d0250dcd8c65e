package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Run extracts every URL listed in the file, one per line, printing a
// summary per document. Failures are reported and skipped; the batch keeps
// going.
func (c *BatchCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	var failed int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rawURL := strings.TrimSpace(scanner.Text())
		if rawURL == "" || strings.HasPrefix(rawURL, "#") {
			continue
		}

		result, err := deps.Service.Extract(deps.Ctx, rawURL)
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "%s: %v\n", rawURL, err)
			continue
		}
		if !result.Success {
			failed++
		}

		if c.Save && result.Success && len(result.Pages) > 0 && deps.Cache != nil {
			if err := deps.Cache.SaveResult(deps.Ctx, result); err != nil {
				fmt.Fprintf(deps.Stderr, "warning: cache forward failed for %s: %v\n", rawURL, err)
			}
		}

		fmt.Fprintf(deps.Stdout, "%s success=%t pages=%d\n", rawURL, result.Success, len(result.Pages))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}

	if failed > 0 {
		fmt.Fprintf(deps.Stdout, "%d document(s) failed\n", failed)
	}
	return nil
}
