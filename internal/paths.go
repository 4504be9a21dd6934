package internal

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Blob store key layout.
const (
	InputPrefix   = "input"
	EncodedPrefix = "encoded"
	AudioFileName = "audio.aac"
)

// SourceKey is where an uploaded source file lives.
func SourceKey(fileName string) string {
	return path.Join(InputPrefix, fileName)
}

// VideoName is the source file name without its extension.
func VideoName(fileName string) string {
	base := path.Base(fileName)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ChunkFileName names chunk seq of a source. The zero-padded prefix keeps
// lexicographic order equal to numeric order up to 10000 chunks.
func ChunkFileName(seq int, fileName string) string {
	return fmt.Sprintf("%04d_%s", seq, path.Base(fileName))
}

// ChunkKey is where the unencoded chunk is uploaded by the ingest stage.
func ChunkKey(videoName, chunkFile string) string {
	return path.Join(videoName, chunkFile)
}

// EncodedChunkKey is where the encode stage writes its result.
func EncodedChunkKey(videoName, chunkFile string) string {
	return path.Join(videoName, "encoded_"+chunkFile)
}

// AudioKey is where the extracted audio track of a video is uploaded.
func AudioKey(videoName string) string {
	return path.Join(videoName, AudioFileName)
}

// MuxKey is the well-known location of a finished video.
func MuxKey(videoID uuid.UUID) string {
	return path.Join(EncodedPrefix, fmt.Sprintf("mux_%s.mp4", videoID))
}

var chunkSeqRegex = regexp.MustCompile(`^(?:encoded_)?(\d+)_`)

// ChunkSeq extracts the sequence number embedded in a chunk file name.
func ChunkSeq(name string) (int, error) {
	matches := chunkSeqRegex.FindStringSubmatch(path.Base(name))
	if len(matches) != 2 {
		return 0, fmt.Errorf("no sequence number in chunk name %q", name)
	}
	seq, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("failed to parse sequence number in %q: %w", name, err)
	}
	return seq, nil
}
