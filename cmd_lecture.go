package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"

	"andary/asset"
	"andary/gemini"
	"andary/i18n"
	"andary/lecture"
	"andary/video"
)

const lectureTimeout = 30 * time.Minute

// LectureOptions holds lecture command settings
type LectureOptions struct {
	OutputDir     string
	Overwrite     bool
	NoFrontMatter bool
	Help          bool
}

// runLecture builds a lecture from files on disk and saves it
func (a *app) runLecture(args []string) int {
	opts, sources := parseLectureArgs(args)
	if opts.Help {
		printLectureHelp()
		return 0
	}
	if len(sources) == 0 {
		printLectureHelp()
		return 2
	}
	if opts.OutputDir == "" {
		opts.OutputDir = a.cfg.OutputDir
	}

	// Load assets
	fmt.Println(infoStyle.Render("Loading files..."))
	paths, err := asset.Resolve(sources)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}
	if len(paths) > asset.MaxLectureAssets {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %d files found, a lecture takes at most %d", len(paths), asset.MaxLectureAssets)))
		return 1
	}

	var files []asset.Asset
	var total int64
	for _, p := range paths {
		f, err := asset.Load(p)
		if err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			return 1
		}
		files = append(files, f)
		total += f.Size
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("Found %d files (%s)", len(files), asset.FormatSize(total))))

	ctx, cancel := context.WithTimeout(context.Background(), lectureTimeout)
	defer cancel()

	if !a.ensureKey(ctx) {
		return 1
	}

	wf := lecture.New(a.client, a.store, append(a.lectureOptions(),
		lecture.WithLanguage(a.cfg.Language),
		lecture.WithLogger(a.log),
		lecture.WithObserver(printLectureEvent),
	)...)
	if err := wf.AddAssets(files...); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}

	models := a.client.Models()
	fmt.Println(infoStyle.Render(fmt.Sprintf("🎓 Writing the lecture with %s, filming with %s...", models.Lecture, models.Video)))

	startTime := time.Now()
	state, err := wf.Generate(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}

	tr := i18n.For(a.cfg.Language)
	done, ok := state.(lecture.Completed)
	if !ok {
		msg := tr.UnexpectedError
		if failed, isFailed := state.(lecture.Failed); isFailed {
			msg = failed.Message
			if failed.CredentialIssue {
				fmt.Println(infoStyle.Render(gemini.GetAPIKeyHelp()))
			}
		}
		fmt.Println(errorStyle.Render(tr.ErrorTitle + ": " + msg))
		if failed, isFailed := state.(lecture.Failed); isFailed && failed.Err != nil {
			fmt.Println(infoStyle.Render("  " + failed.Err.Error()))
		}
		return 1
	}

	// Write files
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	wr, err := gemini.SaveLecture(&gemini.LectureResult{
		VideoURI:  done.VideoURI,
		Analysis:  done.Analysis,
		Media:     done.Media,
		Sources:   names,
		Language:  string(a.cfg.Language),
		CreatedAt: time.Now(),
	}, gemini.WriteOptions{
		OutputDir:      opts.OutputDir,
		Overwrite:      opts.Overwrite,
		AddFrontMatter: !opts.NoFrontMatter,
	})
	if err != nil {
		fmt.Println(errorStyle.Render("Error writing files: " + err.Error()))
		return 1
	}

	length := "unknown"
	if wr.VideoPath != "" && video.CheckFFprobe() == nil {
		var info *video.Info
		_ = spinner.New().
			Title("Reading video information...").
			Action(func() {
				info, _ = video.GetVideoInfo(ctx, wr.VideoPath)
			}).
			Run()
		if info != nil {
			length = video.FormatDuration(info.Duration)
			if res := info.Resolution(); res != "" {
				length += " @ " + res
			}
		}
	}

	successBox := boxStyle.Render(fmt.Sprintf(
		"✅ %s\n\n"+
			"🎬 Video:  %s\n"+
			"📝 Script: %s\n"+
			"⏱️  Length: %s\n"+
			"📦 Total size: %s\n"+
			"⌛ Time: %s",
		tr.Saved,
		displayPath(wr.VideoPath),
		displayPath(wr.AnalysisPath),
		length,
		asset.FormatSize(wr.TotalBytes),
		formatElapsed(time.Since(startTime)),
	))
	fmt.Println(successStyle.Render(successBox))
	return 0
}

// printLectureEvent reports workflow progress on stdout
func printLectureEvent(e lecture.Event) {
	if e.Kind == lecture.EventPoll {
		status := "running"
		if e.Done {
			status = "done"
		}
		fmt.Println(infoStyle.Render(fmt.Sprintf("  status check #%d: %s", e.Attempt, status)))
		return
	}

	switch s := e.State.(type) {
	case lecture.Generating:
		fmt.Println(infoStyle.Render("  script ready, video job " + s.Job + " accepted"))
	case lecture.Completed:
		fmt.Println(successStyle.Render(fmt.Sprintf("  lecture ready (%s)", asset.FormatSize(int64(len(s.Media))))))
	}
}

func displayPath(path string) string {
	if path == "" {
		return "-"
	}
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

// parseLectureArgs parses lecture command arguments
func parseLectureArgs(args []string) (*LectureOptions, []string) {
	opts := &LectureOptions{}
	var sources []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-o", "--output":
			if i+1 < len(args) {
				opts.OutputDir = args[i+1]
				i += 2
			} else {
				i++
			}
		case "--overwrite":
			opts.Overwrite = true
			i++
		case "--no-frontmatter":
			opts.NoFrontMatter = true
			i++
		case "--help", "-h":
			opts.Help = true
			i++
		default:
			if !strings.HasPrefix(arg, "-") {
				sources = append(sources, arg)
			}
			i++
		}
	}

	return opts, sources
}

// printLectureHelp prints help for the lecture command
func printLectureHelp() {
	help := `
🎬 Video Lecture Generation

USAGE:
    andary lecture [OPTIONS] <files...>

ARGUMENTS:
    <files...>              Up to 3 images or PDFs, directories, or glob patterns
                            Examples:
                              ./slides/*.png
                              chapter1.pdf diagram.jpg

OPTIONS:
    -o, --output <dir>      Output directory (default: ./lectures)
    --overwrite             Replace existing files
    --no-frontmatter        Write the script without YAML front matter

The lecture script is written by the lecture model, then a short video is
filmed from it. Filming takes a few minutes; progress is printed as status
checks. Video generation requires an API key from a paid Cloud project.

EXAMPLES:
    andary lecture ./slides/
    andary -lang en lecture -o ./out notes.pdf figure1.png
`
	fmt.Println(help)
}
