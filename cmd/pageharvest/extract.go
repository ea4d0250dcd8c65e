package main

import (
	"encoding/json"
	"fmt"
)

// Run extracts one document and prints the result as indented JSON.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	result, err := deps.Service.Extract(deps.Ctx, c.URL)
	if err != nil {
		return err
	}

	if c.Save && result.Success && len(result.Pages) > 0 {
		if deps.Cache == nil {
			fmt.Fprintln(deps.Stderr, "warning: --save requires --cache-url")
		} else if err := deps.Cache.SaveResult(deps.Ctx, result); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: cache forward failed: %v\n", err)
		}
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
