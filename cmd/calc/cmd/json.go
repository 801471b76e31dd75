package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"calc-engine/internal/engine"
	"calc-engine/internal/observability"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newJSONCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json [request]",
		Short: "Evaluate one structured calculation request",
		Long: `Evaluate one structured calculation request and print the result record.

The request is a JSON object with a "type" of basic, scientific, financial
or statistical plus that domain's fields. It is read from the argument, or
from stdin when the argument is omitted or "-".`,
		Example: `  calc json '{"type":"basic","a":10,"b":5,"operation":"multiply"}'
  calc json --format yaml '{"type":"statistical","data":[1,2,3,4]}'
  echo '{"type":"scientific","value":5,"function":"factorial"}' | calc json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSON(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json or yaml")
	return cmd
}

func runJSON(cmd *cobra.Command, opts *options, args []string) error {
	if opts.format != formatJSON && opts.format != formatYAML {
		return fmt.Errorf("unknown format %q, want json or yaml", opts.format)
	}

	raw, err := readRequest(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	eng, err := newEngine(opts)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := eng.DispatchJSON(raw)
	if err != nil {
		return err
	}
	observability.Logger.Debug("calculation completed",
		zap.Any("type", res.Metadata["type"]),
		zap.Duration("duration", time.Since(start)),
	)

	out, err := render(res, opts.format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func readRequest(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading request from stdin: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("no request given")
	}
	return raw, nil
}

// render prints res as indented JSON, or as block-style YAML with the same
// key order.
func render(res *engine.Result, format string) ([]byte, error) {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, err
	}
	if format == formatJSON {
		return append(out, '\n'), nil
	}

	// JSON is YAML; decoding into a node keeps the key order.
	var doc yaml.Node
	if err := yaml.Unmarshal(out, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Style == yaml.DoubleQuotedStyle {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
