package internal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MediaProcessor performs the media operations of the pipeline. Every method
// returns an error if the underlying tool exits unsuccessfully.
type MediaProcessor interface {
	// Segment splits the video stream of src into silent chunks of roughly
	// segment length, written to outDir as ChunkFileName(seq, fileName).
	// The returned paths are ordered by sequence number.
	Segment(ctx context.Context, src, outDir, fileName string, segment time.Duration) ([]string, error)
	// ExtractAudio writes the audio track of src to dst as AAC.
	ExtractAudio(ctx context.Context, src, dst string) error
	// Transcode encodes one chunk.
	Transcode(ctx context.Context, params TranscodeParams) error
	// Concat joins the chunks listed in manifest and adds the audio track.
	Concat(ctx context.Context, manifest, audio, dst string) error
}

// FFmpegProcessor implements MediaProcessor with ffmpeg, delegating chunk
// encoding to the Transcoder for its profile.
type FFmpegProcessor struct {
	transcoder Transcoder
}

func NewFFmpegProcessor(profile Profile) *FFmpegProcessor {
	return &FFmpegProcessor{transcoder: NewTranscoder(profile)}
}

func runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w (output: %s)", err, output)
	}
	return nil
}

// segmentArgs copies the first video stream without re-encoding, so chunk
// boundaries fall on the nearest keyframe after each segment interval.
func segmentArgs(src, outDir, fileName string, segment time.Duration) []string {
	pattern := filepath.Join(outDir, "%04d_"+filepath.Base(fileName))
	return []string{
		"-i", src,
		"-map", "0:v:0",
		"-an",
		"-c", "copy",
		"-f", "segment",
		"-segment_time", strconv.FormatFloat(segment.Seconds(), 'f', -1, 64),
		"-reset_timestamps", "1",
		"-y",
		pattern,
	}
}

func audioArgs(src, dst string) []string {
	return []string{
		"-i", src,
		"-vn",
		"-c:a", "aac",
		"-y",
		dst,
	}
}

func concatArgs(manifest, audio, dst string) []string {
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-i", audio,
		"-map", "0:v",
		"-map", "1:a",
		"-c", "copy",
		"-y",
		dst,
	}
}

func (p *FFmpegProcessor) Segment(ctx context.Context, src, outDir, fileName string, segment time.Duration) ([]string, error) {
	if segment <= 0 {
		return nil, fmt.Errorf("segment duration must be positive, got %s", segment)
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create segment directory: %w", err)
	}
	if err := runFFmpeg(ctx, segmentArgs(src, outDir, fileName, segment)); err != nil {
		return nil, err
	}
	return listChunks(outDir)
}

// listChunks returns the chunk files in dir sorted by sequence number.
func listChunks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := ChunkSeq(entry.Name()); err != nil {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if err := SortChunkPaths(paths); err != nil {
		return nil, err
	}
	return paths, nil
}

// SortChunkPaths orders chunk file paths by their numeric sequence number.
func SortChunkPaths(paths []string) error {
	seqs := make(map[string]int, len(paths))
	for _, p := range paths {
		seq, err := ChunkSeq(p)
		if err != nil {
			return err
		}
		seqs[p] = seq
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return seqs[paths[i]] < seqs[paths[j]]
	})
	return nil
}

func (p *FFmpegProcessor) ExtractAudio(ctx context.Context, src, dst string) error {
	return runFFmpeg(ctx, audioArgs(src, dst))
}

func (p *FFmpegProcessor) Transcode(ctx context.Context, params TranscodeParams) error {
	return p.transcoder.Transcode(ctx, params)
}

func (p *FFmpegProcessor) Concat(ctx context.Context, manifest, audio, dst string) error {
	if err := runFFmpeg(ctx, concatArgs(manifest, audio, dst)); err != nil {
		return err
	}
	if _, err := os.Stat(dst); err != nil {
		return fmt.Errorf("output file not created: %w", err)
	}
	return nil
}

// WriteConcatManifest writes the ffmpeg concat demuxer input listing files
// in the given order.
func WriteConcatManifest(path string, files []string) error {
	var b strings.Builder
	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %s: %w", file, err)
		}
		escaped := strings.ReplaceAll(absPath, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0640); err != nil {
		return fmt.Errorf("failed to write concat manifest: %w", err)
	}
	return nil
}
