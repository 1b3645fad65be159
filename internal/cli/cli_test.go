package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/tripparse/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packageInquiry = "Dear team,\n" +
	"We are planning a 5 nights trip to Phuket for 3 people (2 adults + 1 child) in the second week of November. " +
	"Hotel 4-star with breakfast. Budget ₹45000 per person.\n" +
	"Regards,\nRahul Sharma"

const hinglishInquiry = "Hum 4 log (2 adults aur 2 bacche) Goa jana hai December mein, 5 raatein. " +
	"Budget ₹50k per bande. Flight bhi chahiye."

func testConfig(t *testing.T, output string) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Model.Backend = "none"
	cfg.ReferenceDate = "2025-10-01"
	cfg.Workers = 2
	cfg.Output.Path = output
	cfg.Output.Format = ""
	return cfg
}

func writeInquiries(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"english_001.txt":  []byte(packageInquiry),
		"hinglish_001.txt": []byte(hinglishInquiry),
		"zz_binary.txt":    {0x00, 0x01, 0x02, 'G', 'o', 'a', 0x00},
		"notes.md":         []byte("ignored"),
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	v := viper.New()
	configureViper(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	def := model.DefaultConfig()
	assert.Equal(t, def.Model.Backend, cfg.Model.Backend)
	assert.Equal(t, def.Text, cfg.Text)
	assert.Equal(t, def.Cache.TTL, cfg.Cache.TTL)
	assert.Equal(t, def.Dictionaries.Destinations, cfg.Dictionaries.Destinations)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TRIPPARSE_MODEL_BACKEND", "none")
	t.Setenv("TRIPPARSE_TEXT_MIN_LENGTH", "5")
	t.Setenv("TRIPPARSE_INQUIRY_TIMEOUT", "30s")
	t.Setenv("TRIPPARSE_OUTPUT_FORMAT", "csv")

	v := viper.New()
	configureViper(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Model.Backend)
	assert.Equal(t, 5, cfg.Text.MinLength)
	assert.Equal(t, 30*time.Second, cfg.InquiryTimeout)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestLoadConfig_FileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `workers: 3
reference_date: "2025-10-01"
model:
  backend: none
fields:
  - id: customer_name
    policy: pattern_precedence
dictionaries:
  destinations: [goa, kerala]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	configureViper(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "2025-10-01", cfg.ReferenceDate)
	assert.Equal(t, "none", cfg.Model.Backend)
	assert.Equal(t, []model.FieldOverride{{ID: model.FieldCustomerName, Policy: model.PolicyPatternPrecedence}}, cfg.Fields)
	assert.Equal(t, []string{"goa", "kerala"}, cfg.Dictionaries.Destinations)
	assert.Equal(t, model.DefaultDictionaries().Cities, cfg.Dictionaries.Cities)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"output.format":  "pdf",
		"model.backend":  "gpt",
		"reference_date": "01/10/2025",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			v := viper.New()
			configureViper(v)
			v.Set(key, value)

			_, err := loadConfig(v)
			assert.Error(t, err)
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, writeDefaultConfig(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# tripparse configuration file")
	assert.Contains(t, string(data), "backend: prose")

	// The written file loads back to the defaults
	v := viper.New()
	configureViper(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 10000, cfg.Text.MaxLength)

	err = writeDefaultConfig(path, false)
	assert.ErrorContains(t, err, "already exists")
	assert.NoError(t, writeDefaultConfig(path, true))
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, showConfig(&buf, model.DefaultConfig()))

	out := buf.String()
	assert.Contains(t, out, "Current Configuration")
	assert.Contains(t, out, "backend: prose")
	assert.Contains(t, out, "TRIPPARSE_")
}

func TestGenerateInquiries(t *testing.T) {
	dir := t.TempDir()
	bulk := filepath.Join(dir, "hinglish_emails.txt")
	content := hinglishInquiry + "\n---\nok\n---\n" + packageInquiry
	require.NoError(t, os.WriteFile(bulk, []byte(content), 0o644))

	out := filepath.Join(dir, "inquiries")
	var buf bytes.Buffer
	n, err := generateInquiries([]string{bulk}, "", out, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(out, "hinglish_001.txt"))
	assert.FileExists(t, filepath.Join(out, "hinglish_003.txt"))
	assert.Contains(t, buf.String(), "Generated 2 inquiry files")
}

func TestGenerateInquiries_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	_, err := generateInquiries([]string{filepath.Join(t.TempDir(), "nope.txt")}, "x", t.TempDir(), &buf)
	assert.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	dir := writeInquiries(t)
	output := filepath.Join(t.TempDir(), "report.json")
	var stderr bytes.Buffer

	rep, err := runBatch(context.Background(), testConfig(t, output), dir, 0, &stderr)
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Summary.Total)
	assert.Equal(t, 2, rep.Summary.Succeeded)
	assert.Equal(t, 1, rep.Summary.Failed)
	assert.False(t, rep.Summary.ModelAvailable)

	require.Len(t, rep.Results, 3)
	assert.Equal(t, "english_001.txt", rep.Results[0].InquiryID)
	assert.Equal(t, 3, rep.Results[0].Record.Get(model.FieldTravelers).Int)
	assert.Equal(t, "hinglish_001.txt", rep.Results[1].InquiryID)
	assert.Equal(t, 4, rep.Results[1].Record.Get(model.FieldTravelers).Int)
	require.NotNil(t, rep.Results[2].Failure)
	assert.ErrorIs(t, rep.Results[2].Failure, model.ErrDecode)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "summary")

	assert.Contains(t, stderr.String(), "Batch Complete")
	assert.Contains(t, stderr.String(), "✗ zz_binary.txt")
	assert.Contains(t, stderr.String(), "disabled (pattern-only)")
}

func TestRunBatch_Cancelled(t *testing.T) {
	dir := writeInquiries(t)
	output := filepath.Join(t.TempDir(), "report.csv")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := runBatch(ctx, testConfig(t, output), dir, 0, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// Nothing is dropped: every inquiry is reported
	require.NotNil(t, rep)
	assert.Equal(t, 3, rep.Summary.Total)
	assert.FileExists(t, output)
}

func TestRunBatch_MissingDir(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "report.xlsx"))
	_, err := runBatch(context.Background(), cfg, filepath.Join(t.TempDir(), "nope"), 0, &bytes.Buffer{})
	assert.ErrorContains(t, err, "load inquiries")
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "english_001.txt")
	require.NoError(t, os.WriteFile(path, []byte(packageInquiry), 0o644))

	var buf bytes.Buffer
	require.NoError(t, extractFile(context.Background(), testConfig(t, ""), path, false, &buf))

	var rec struct {
		InquiryID string                     `json:"inquiry_id"`
		Fields    map[string]json.RawMessage `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "english_001.txt", rec.InquiryID)
	assert.Equal(t, "3", string(rec.Fields["travelers"]))
	assert.Equal(t, `"Rahul Sharma"`, string(rec.Fields["customer_name"]))
	assert.Equal(t, `"2025-11-15"`, string(rec.Fields["end_date"]))
}

func TestExtractFile_Table(t *testing.T) {
	path := filepath.Join(t.TempDir(), "english_001.txt")
	require.NoError(t, os.WriteFile(path, []byte(packageInquiry), 0o644))

	var buf bytes.Buffer
	require.NoError(t, extractFile(context.Background(), testConfig(t, ""), path, true, &buf))

	out := buf.String()
	assert.Contains(t, out, "₹45000 per person")
	assert.Contains(t, out, "Number of Travelers")
	assert.Contains(t, out, "Not Specified")
}

func TestExtractFile_Failure(t *testing.T) {
	var buf bytes.Buffer
	err := extractFile(context.Background(), testConfig(t, ""), filepath.Join(t.TempDir(), "missing.txt"), false, &buf)
	require.Error(t, err)

	var failure *model.ExtractionFailure
	assert.ErrorAs(t, err, &failure)
	assert.Empty(t, buf.String())
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "tripparse dev\n", buf.String())
}
