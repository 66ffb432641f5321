package stt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

const sampleRateHertz = 16000

// Google is the Cloud Speech transcriber. It relies on Application Default
// Credentials for authentication.
type Google struct {
	speechClient *speech.Client
	languageCode string
}

// NewGoogle creates a new Google Cloud Speech client.
func NewGoogle(language string) (*Google, error) {
	ctx := context.Background()
	speechClient, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &Google{speechClient: speechClient, languageCode: languageCode(language)}, nil
}

// Close cleans up the speech client connection.
func (g *Google) Close() error {
	if g.speechClient != nil {
		return g.speechClient.Close()
	}
	return nil
}

// Transcribe streams the WAV file through streaming recognition and returns
// the final transcript.
func (g *Google) Transcribe(ctx context.Context, wavPath string) (string, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("could not read recording: %w", err)
	}

	// Cancelling on return releases the streaming goroutines when this
	// function exits early on error, so none of them block forever.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	transcriptChan := make(chan string)
	errChan := make(chan error, 1)
	go g.StreamingTranscribe(ctx, bytes.NewReader(stripWAVHeader(data)), transcriptChan, errChan)

	var finalTranscript strings.Builder
	for {
		select {
		case transcript, ok := <-transcriptChan:
			if !ok {
				return strings.TrimSpace(finalTranscript.String()), nil
			}
			finalTranscript.WriteString(transcript)
		case err := <-errChan:
			return "", err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// StreamingTranscribe processes an audio stream and sends final transcripts
// through a channel. The channel is closed when the stream ends.
func (g *Google) StreamingTranscribe(ctx context.Context, reader io.Reader, transcriptChan chan<- string, errChan chan<- error) {
	stream, err := g.speechClient.StreamingRecognize(ctx)
	if err != nil {
		sendErr(ctx, errChan, fmt.Errorf("could not start streaming recognize: %w", err))
		return
	}

	// Send initial configuration
	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz: sampleRateHertz,
					LanguageCode:    g.languageCode,
				},
			},
		},
	}); err != nil {
		sendErr(ctx, errChan, fmt.Errorf("could not send streaming config: %w", err))
		return
	}

	// Goroutine to stream audio content from the reader
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := reader.Read(buf)
			if n > 0 {
				if err := stream.Send(&speechpb.StreamingRecognizeRequest{
					StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
						AudioContent: buf[:n],
					},
				}); err != nil {
					sendErr(ctx, errChan, fmt.Errorf("could not send audio content: %w", err))
					return
				}
			}
			if err == io.EOF {
				if err := stream.CloseSend(); err != nil {
					sendErr(ctx, errChan, fmt.Errorf("failed to close send stream: %w", err))
				}
				return
			}
			if err != nil {
				sendErr(ctx, errChan, fmt.Errorf("error reading audio: %w", err))
				return
			}
		}
	}()

	// Receive and forward final transcripts
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			sendErr(ctx, errChan, fmt.Errorf("cannot stream results: %w", err))
			return
		}
		for _, result := range resp.Results {
			if result.IsFinal && len(result.Alternatives) > 0 {
				if !sendTranscript(ctx, transcriptChan, result.Alternatives[0].Transcript) {
					return
				}
			}
		}
	}
	close(transcriptChan)
}

// sendTranscript delivers a transcript unless the context ends first. It
// reports whether the send happened, so callers stop instead of blocking
// forever when the receiver has gone away.
func sendTranscript(ctx context.Context, ch chan<- string, transcript string) bool {
	select {
	case ch <- transcript:
		return true
	case <-ctx.Done():
		return false
	}
}

// sendErr delivers an error unless the context ends first.
func sendErr(ctx context.Context, ch chan<- error, err error) {
	select {
	case ch <- err:
	case <-ctx.Done():
	}
}

// stripWAVHeader drops the canonical 44-byte RIFF header so only raw PCM is
// sent to the recognizer. Headerless data passes through untouched.
func stripWAVHeader(data []byte) []byte {
	if len(data) > 44 && bytes.HasPrefix(data, []byte("RIFF")) {
		return data[44:]
	}
	return data
}
