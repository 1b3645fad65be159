package cli

import (
	"fmt"
	"io"

	"github.com/ppiankov/tripparse/internal/source"
	"github.com/spf13/cobra"
)

var (
	generateOutDir string
	generatePrefix string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <bulk-file>...",
	Short: "Split bulk email dumps into individual inquiry files",
	Long: `Generate splits bulk email dumps on "---" separator lines into one
inquiry file per email, named <prefix>_NNN.txt. Chunks of 50 characters or
fewer are skipped. The prefix defaults to the bulk file name without its
"_emails" suffix.

Example:
  tripparse generate attached/english_emails.txt attached/hinglish_emails.txt
  tripparse generate dump.txt --prefix sample --out-dir ./inquiries`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := generateInquiries(args, generatePrefix, generateOutDir, cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateOutDir, "out-dir", "inquiries", "directory for the generated inquiry files")
	generateCmd.Flags().StringVar(&generatePrefix, "prefix", "", "file name prefix (default: derived from each bulk file name)")
}

// generateInquiries splits every bulk file and returns the number of files written
func generateInquiries(paths []string, prefix, outDir string, w io.Writer) (int, error) {
	total := 0
	for _, path := range paths {
		p := prefix
		if p == "" {
			p = source.PrefixFor(path)
		}

		written, err := source.SplitFile(path, p, outDir)
		total += len(written)
		if err != nil {
			return total, fmt.Errorf("split %s: %w", path, err)
		}
		fmt.Fprintf(w, "✓ %s: %d inquiries\n", path, len(written))
	}
	fmt.Fprintf(w, "\nGenerated %d inquiry files in %s\n", total, outDir)
	return total, nil
}
