package main

import (
	"fmt"

	"github.com/ryftlang/restructure/domain"
)

func parseOutputFormat(raw string) (domain.OutputFormat, error) {
	switch raw {
	case "", "text":
		return domain.OutputFormatText, nil
	case "json":
		return domain.OutputFormatJSON, nil
	case "dot":
		return domain.OutputFormatDOT, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, or dot)", raw)
	}
}
