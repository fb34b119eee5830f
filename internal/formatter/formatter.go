// package formatter provides functions to export account listings to various formats (CSV, Markdown, plain text, JSON, YAML)
//
// Exports are built from [models.UserSummary] values and therefore never carry passwords.
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/desertthunder/podfetch-console/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported [Format].
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatYAML}

var extensions = map[Format]string{
	FormatCSV:      ".csv",
	FormatMarkdown: ".md",
	FormatText:     ".txt",
	FormatJSON:     ".json",
	FormatYAML:     ".yaml",
}

// ParseFormat matches s case-insensitively against [Formats]. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		f = FormatMarkdown
	}
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string { return extensions[f] }

type userRecord struct {
	ID              int64     `json:"id" yaml:"id"`
	Username        string    `json:"username" yaml:"username"`
	Role            string    `json:"role" yaml:"role"`
	ExplicitConsent bool      `json:"explicit_consent" yaml:"explicit_consent"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

func records(users []models.UserSummary) []userRecord {
	out := make([]userRecord, len(users))
	for i, u := range users {
		out[i] = userRecord{
			ID:              u.ID,
			Username:        u.Username,
			Role:            u.Role.String(),
			ExplicitConsent: u.ExplicitConsent,
			CreatedAt:       u.CreatedAt.UTC(),
		}
	}
	return out
}

// ExportToCSV converts users to CSV format with columns: ID, Username, Role, Explicit Consent, Created At
func ExportToCSV(users []models.UserSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Username", "Role", "Explicit Consent", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, u := range records(users) {
		record := []string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Role,
			strconv.FormatBool(u.ExplicitConsent),
			u.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts users to a Markdown document with a role summary and one list entry per user
func ExportToMarkdown(users []models.UserSummary) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Users\n\n")
	buf.WriteString(fmt.Sprintf("**Users**: %d\n", len(users)))
	for _, role := range models.Roles {
		n := 0
		for _, u := range users {
			if u.Role == role {
				n++
			}
		}
		buf.WriteString(fmt.Sprintf("**%s**: %d\n", role, n))
	}

	buf.WriteString("\n## Accounts\n\n")
	for i, u := range records(users) {
		consent := ""
		if u.ExplicitConsent {
			consent = " (explicit consent)"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, u.Username, u.Role, consent, u.CreatedAt.Format(time.DateOnly)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts users to plain text format
func ExportToText(users []models.UserSummary) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Users: %d\n\n", len(users)))
	for i, u := range users {
		buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, u.Username, u.Role))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts users to a JSON array
func ExportToJSON(users []models.UserSummary, pretty bool) ([]byte, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(records(users), "", "  ")
	} else {
		data, err = json.Marshal(records(users))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML converts users to a YAML sequence
func ExportToYAML(users []models.UserSummary) ([]byte, error) {
	data, err := yaml.Marshal(records(users))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}

// Export converts users to format.
func Export(users []models.UserSummary, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(users)
	case FormatMarkdown:
		return ExportToMarkdown(users)
	case FormatText:
		return ExportToText(users)
	case FormatJSON:
		return ExportToJSON(users, true)
	case FormatYAML:
		return ExportToYAML(users)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, format)
	}
}

// WriteExport exports users to a file and returns its path.
//
// Defaults to users{ext} in the working directory when path is empty.
func WriteExport(users []models.UserSummary, format Format, path string) (string, error) {
	data, err := Export(users, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "users" + format.Extension()
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
