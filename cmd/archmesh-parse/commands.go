package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmesh/archmesh/core/parse"
	"github.com/archmesh/archmesh/internal/config"
	"github.com/archmesh/archmesh/internal/utils"
	"github.com/archmesh/archmesh/providers/observability"
)

func newDecodeCmd(a *app) *cobra.Command {
	var providerFlag string
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Print the answer text of a provider response body",
		Long: `Reads a provider response body (JSON) and prints the answer text.

Providers:
  - openai:    choices[0].message.content (strict)
  - anthropic: content[0].text (strict)
  - ollama:    message.content or response, reasoning traces removed (lenient)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, ok, err := a.provider(providerFlag)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("decode: --provider is required (or set provider in the config)")
			}
			body, err := a.readInput(args)
			if err != nil {
				return err
			}
			text, err := parse.DecodeBytes(provider, body)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, text)
			return err
		},
	}
	cmd.Flags().StringVar(&providerFlag, "provider", "", "Envelope family: openai, anthropic, ollama")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the JSON candidate found in model text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, parse.ExtractJSON(string(text)))
			return err
		},
	}
}

func newRepairCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repair [file]",
		Short: "Print the JSON candidate after the configured repair",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(args)
			if err != nil {
				return err
			}
			repaired, err := a.repairer.Repair(parse.ExtractJSON(string(text)))
			if err != nil {
				return fmt.Errorf("%s repair: %w", a.repairer.Name(), err)
			}
			_, err = fmt.Fprintln(a.out, repaired)
			return err
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	var (
		providerFlag string
		fallbackPath string
	)
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse model text, or a provider body, into indented JSON",
		Long: `Parses model output the way the generator does and prints the result.

With --provider (or a configured provider) the input is a provider response
body that is decoded first. Unparseable text prints the fallback: the mapping
from --fallback or the config, or {"error": ..., "raw_response": ...}.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)

			provider, decode, err := a.provider(providerFlag)
			if err != nil {
				return err
			}
			fallback := a.cfg.Fallback
			if fallbackPath != "" {
				if fallback, err = config.LoadFallback(fallbackPath); err != nil {
					return err
				}
			}
			input, err := a.readInput(args)
			if err != nil {
				return err
			}

			var result any
			if decode {
				var response parse.RawResponse
				if err := json.Unmarshal(input, &response); err != nil {
					return fmt.Errorf("%w: %s: body is not a JSON object: %v", parse.ErrEnvelopeMismatch, provider, err)
				}
				if result, err = a.parser.ParseResponse(ctx, provider, response, fallback); err != nil {
					return err
				}
			} else {
				result = a.parser.Parse(ctx, string(input), fallback)
			}

			a.logger.Debug(ctx, "Parsed input",
				observability.Int(observability.AttrParseRawLength, len(input)),
				observability.Bool(observability.AttrParseFallbackSupplied, fallback != nil),
			)

			_, err = fmt.Fprintln(a.out, utils.JSONToString(result, true))
			return err
		},
	}
	cmd.Flags().StringVar(&providerFlag, "provider", "", "Decode the input as this provider's response body")
	cmd.Flags().StringVar(&fallbackPath, "fallback", "", "Fallback mapping file (.json, .yaml or .yml)")
	return cmd
}
