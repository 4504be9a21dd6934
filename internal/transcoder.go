package internal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ProgressCallback func(progress float64)

type TranscodeParams struct {
	SourcePath       string
	DestinationPath  string
	ProgressCallback ProgressCallback
}

// Transcoder encodes a single silent chunk.
type Transcoder interface {
	Transcode(context.Context, TranscodeParams) error
}

func NewTranscoder(profile Profile) Transcoder {
	switch profile {
	case ProfilePreview:
		return &ffmpegTranscoder{scaleHeight: 240}
	case ProfileH264:
		return &ffmpegTranscoder{}
	case ProfileFast1080p30:
		return &handbrakeTranscoder{}
	default:
		panic(fmt.Errorf("%w: %q", ErrPanicInvalidProfile, profile))
	}
}

// ffmpegTranscoder re-encodes to H.264, optionally scaling to a fixed height.
type ffmpegTranscoder struct {
	scaleHeight int
}

func getResolution(ctx context.Context, path string) (width int, height int, err error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to probe video: %w", err)
	}

	parts := strings.Split(strings.TrimSpace(string(output)), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected ffprobe output: %s", output)
	}

	width, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse width: %w", err)
	}

	height, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse height: %w", err)
	}

	return width, height, nil
}

func getDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to probe duration: %w", err)
	}

	durationSec, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(durationSec * float64(time.Second)), nil
}

var timeRegex = regexp.MustCompile(`time=(\d{2}):(\d{2}):(\d{2})\.(\d{2})`)

func parseFfmpegProgress(line string, totalDuration time.Duration) (float64, bool) {
	matches := timeRegex.FindStringSubmatch(line)
	if len(matches) != 5 {
		return 0, false
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])
	centiseconds, _ := strconv.Atoi(matches[4])

	currentTime := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(centiseconds)*10*time.Millisecond

	if totalDuration == 0 {
		return 0, false
	}

	progress := float64(currentTime) / float64(totalDuration)
	if progress > 1.0 {
		progress = 1.0
	}
	return progress, true
}

// scaleFilter returns the -vf value that scales to targetHeight keeping the
// aspect ratio, with an even width as libx264 requires.
func scaleFilter(width, height, targetHeight int) string {
	targetWidth := (width * targetHeight) / height
	if targetWidth%2 != 0 {
		targetWidth++
	}
	return fmt.Sprintf("scale=%dx%d", targetWidth, targetHeight)
}

func (t *ffmpegTranscoder) buildArgs(params TranscodeParams, filter string) []string {
	args := []string{"-i", params.SourcePath}
	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-an",
		"-progress", "pipe:2",
		"-y",
		params.DestinationPath,
	)
	return args
}

func (t *ffmpegTranscoder) Transcode(ctx context.Context, params TranscodeParams) error {
	var filter string
	if t.scaleHeight > 0 {
		width, height, err := getResolution(ctx, params.SourcePath)
		if err != nil {
			return err
		}
		filter = scaleFilter(width, height, t.scaleHeight)
	}

	var totalDuration time.Duration
	if params.ProgressCallback != nil {
		var err error
		totalDuration, err = getDuration(ctx, params.SourcePath)
		if err != nil {
			return err
		}
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", t.buildArgs(params, filter)...)

	if params.ProgressCallback != nil {
		stderrPipe, err := cmd.StderrPipe()
		if err != nil {
			return fmt.Errorf("failed to create stderr pipe: %w", err)
		}

		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to start ffmpeg: %w", err)
		}

		scanner := bufio.NewScanner(stderrPipe)
		for scanner.Scan() {
			if progress, ok := parseFfmpegProgress(scanner.Text(), totalDuration); ok {
				params.ProgressCallback(progress * 100)
			}
		}
		io.Copy(io.Discard, stderrPipe)

		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("ffmpeg failed: %w", err)
		}
		return nil
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w (output: %s)", err, output)
	}
	return nil
}

// handbrakeTranscoder uses HandBrakeCLI for high-quality transcoding.
type handbrakeTranscoder struct{}

// handbrakeProgress represents the JSON progress output from HandBrake.
type handbrakeProgress struct {
	State   string `json:"State"`
	Working struct {
		Progress float64 `json:"Progress"`
	} `json:"Working"`
}

// parseHandbrakeProgress feeds HandBrake's --json output to callback. The
// output labels each object ("Progress: {") and spreads it over many lines.
func parseHandbrakeProgress(r io.Reader, callback ProgressCallback) {
	scanner := bufio.NewScanner(r)
	var jsonBuffer strings.Builder
	inProgressBlock := false
	braceCount := 0

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "Progress:") {
			inProgressBlock = true
			jsonBuffer.Reset()
			jsonPart := strings.TrimSpace(strings.TrimPrefix(line, "Progress:"))
			jsonBuffer.WriteString(jsonPart)
			braceCount = strings.Count(jsonPart, "{") - strings.Count(jsonPart, "}")
		} else if inProgressBlock {
			jsonBuffer.WriteString(line)
			braceCount += strings.Count(line, "{") - strings.Count(line, "}")
		} else {
			continue
		}

		if braceCount != 0 {
			continue
		}
		inProgressBlock = false

		var progress handbrakeProgress
		if err := json.Unmarshal([]byte(jsonBuffer.String()), &progress); err != nil {
			continue
		}
		if progress.State == "WORKING" && callback != nil {
			callback(progress.Working.Progress * 100)
		}
	}
}

func (t *handbrakeTranscoder) Transcode(ctx context.Context, params TranscodeParams) error {
	cmd := exec.CommandContext(ctx,
		"HandBrakeCLI",
		"-i", params.SourcePath,
		"-o", params.DestinationPath,
		"--json",
		"--preset", "Fast 1080p30",
		"--audio", "none",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start HandBrake: %w", err)
	}

	parseHandbrakeProgress(stdout, params.ProgressCallback)
	io.Copy(io.Discard, stdout)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("HandBrake failed: %w", err)
	}

	return nil
}
