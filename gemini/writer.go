package gemini

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LectureResult is a finished lecture ready to be saved
type LectureResult struct {
	VideoURI string
	Analysis string
	Media    []byte

	// Sources names the assets the lecture was built from
	Sources   []string
	Language  string
	CreatedAt time.Time
}

// WriteOptions configures SaveLecture
type WriteOptions struct {
	// OutputDir is the directory to write files to
	OutputDir string

	// Overwrite allows overwriting existing files
	Overwrite bool

	// AddFrontMatter adds YAML front matter to the analysis file
	AddFrontMatter bool

	// Verbose enables verbose output
	Verbose bool
}

// WriteResult contains information about written files
type WriteResult struct {
	VideoPath    string
	AnalysisPath string
	FilesWritten []string
	TotalBytes   int64
}

// SaveLecture writes the lecture video and its analysis script to disk
func SaveLecture(res *LectureResult, opts WriteOptions) (*WriteResult, error) {
	if res == nil || (len(res.Media) == 0 && strings.TrimSpace(res.Analysis) == "") {
		return nil, fmt.Errorf("nothing to save")
	}

	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	created := res.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	base := "lecture_" + created.Format("20060102_150405")

	result := &WriteResult{}

	if len(res.Media) > 0 {
		path := filepath.Join(opts.OutputDir, base+".mp4")
		if err := writeFile(path, res.Media, opts); err != nil {
			return nil, err
		}
		result.VideoPath = path
		result.FilesWritten = append(result.FilesWritten, path)
		result.TotalBytes += int64(len(res.Media))
	}

	if strings.TrimSpace(res.Analysis) != "" {
		path := filepath.Join(opts.OutputDir, base+".md")
		content := buildAnalysisContent(res, created, opts)
		if err := writeFile(path, []byte(content), opts); err != nil {
			return result, err
		}
		result.AnalysisPath = path
		result.FilesWritten = append(result.FilesWritten, path)
		result.TotalBytes += int64(len(content))
	}

	return result, nil
}

func writeFile(path string, data []byte, opts WriteOptions) error {
	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file exists: %s (use --overwrite to replace)", path)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if opts.Verbose {
		fmt.Printf("  Wrote: %s (%d bytes)\n", path, len(data))
	}
	return nil
}

func buildAnalysisContent(res *LectureResult, created time.Time, opts WriteOptions) string {
	var sb strings.Builder

	if opts.AddFrontMatter {
		sb.WriteString("---\n")
		sb.WriteString("title: \"Video Lecture\"\n")
		sb.WriteString(fmt.Sprintf("generated: %s\n", created.Format(time.RFC3339)))
		if res.Language != "" {
			sb.WriteString(fmt.Sprintf("language: %s\n", res.Language))
		}
		sb.WriteString(fmt.Sprintf("visual_prompt: %q\n", ExtractVisualPrompt(res.Analysis)))
		if len(res.Sources) > 0 {
			sb.WriteString("sources:\n")
			for _, s := range res.Sources {
				sb.WriteString(fmt.Sprintf("  - %q\n", s))
			}
		}
		sb.WriteString("---\n\n")
	}

	sb.WriteString(res.Analysis)

	content := sb.String()
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content
}
