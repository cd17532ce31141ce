package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/NethermindEth/snip12/encoder"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

const (
	textFormat  = "text"
	jsonFormat  = "json"
	yamlFormat  = "yaml"
	tableFormat = "table"
	cborFormat  = "cbor"
)

// row is a single line of text or table output.
type row interface {
	header() []string
	values() []string
}

func writeReports[R row](w io.Writer, format string, reports []R) error {
	switch format {
	case jsonFormat:
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case yamlFormat:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case cborFormat:
		data, err := encoder.Marshal(reports)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case tableFormat:
		if len(reports) == 0 {
			return nil
		}
		table := tablewriter.NewWriter(w)
		table.SetHeader(reports[0].header())
		table.SetAutoWrapText(false)
		for _, r := range reports {
			table.Append(r.values())
		}
		table.Render()
		return nil
	default:
		for _, r := range reports {
			if _, err := fmt.Fprintln(w, strings.Join(r.values(), " ")); err != nil {
				return err
			}
		}
		return nil
	}
}
