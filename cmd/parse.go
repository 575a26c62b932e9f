package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felo/mailintel/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse one message and print its intelligence record as JSON",
	Long: `Reads a raw RFC 5322 message from the given file (or stdin when no
file is given) and prints the parsed record as indented JSON. Nothing
is stored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		var raw []byte
		if len(args) == 1 {
			raw, err = os.ReadFile(args[0])
		} else {
			raw, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		p := parser.New(parser.Options{
			Extract:   cfg.ExtractConfig(),
			Signature: cfg.SignatureConfig(),
			Spam:      cfg.SpamConfig(),
			Logger:    log,
		})

		parsed, err := p.Parse(uuid.NewString(), raw)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
