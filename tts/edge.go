package tts

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	edgeWSSURL   = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1?TrustedClientToken=6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeOrigin   = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"
	outputFormat = "audio-24khz-48kbitrate-mono-mp3"
)

// Edge synthesizes speech through the Microsoft Edge read-aloud websocket
// endpoint. It needs no API key, which makes it the default provider.
type Edge struct {
	voice  string
	dialer *websocket.Dialer
}

// NewEdge creates an Edge synthesizer for the given neural voice.
func NewEdge(voice string) *Edge {
	return &Edge{
		voice: voice,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (e *Edge) Name() string { return "edge" }

// Synthesize renders the text to MP3 bytes. The websocket dial is retried
// once on handshake failure.
func (e *Edge) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cleaned := CleanText(text)
	if len([]rune(cleaned)) < 2 {
		return nil, nil
	}

	conn, err := e.dial(ctx)
	if err != nil {
		conn, err = e.dial(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to edge tts: %w", err)
	}
	defer func() { _ = conn.Close() }()

	requestID := strings.ReplaceAll(uuid.NewString(), "-", "")
	timestamp := time.Now().UTC().Format("Mon Jan 2 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")

	configMsg := fmt.Sprintf(
		"X-Timestamp:%s\r\nContent-Type:application/json; charset=utf-8\r\nPath:speech.config\r\n\r\n"+
			`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"%s"}}}}`,
		timestamp, outputFormat)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(configMsg)); err != nil {
		return nil, fmt.Errorf("could not send speech config: %w", err)
	}

	ssmlMsg := fmt.Sprintf(
		"X-RequestId:%s\r\nContent-Type:application/ssml+xml\r\nX-Timestamp:%s\r\nPath:ssml\r\n\r\n%s",
		requestID, timestamp, e.ssml(cleaned))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMsg)); err != nil {
		return nil, fmt.Errorf("could not send ssml: %w", err)
	}

	var audio bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("error reading synthesis stream: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(data), "Path:turn.end") {
				return audio.Bytes(), nil
			}
		case websocket.BinaryMessage:
			// Binary frames carry a big-endian u16 header length, the header
			// text, then the audio payload.
			if len(data) < 2 {
				continue
			}
			headerLen := int(binary.BigEndian.Uint16(data[:2]))
			if len(data) < 2+headerLen {
				continue
			}
			header := string(data[2 : 2+headerLen])
			if strings.Contains(header, "Path:audio") {
				audio.Write(data[2+headerLen:])
			}
		}
	}
}

func (e *Edge) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Origin", edgeOrigin)
	header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36 Edg/130.0.0.0")
	conn, _, err := e.dialer.DialContext(ctx, edgeWSSURL, header)
	return conn, err
}

var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

func (e *Edge) ssml(text string) string {
	return fmt.Sprintf(
		`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'><voice name='%s'><prosody pitch='+0Hz' rate='+0%%' volume='+0%%'>%s</prosody></voice></speak>`,
		e.voice, ssmlEscaper.Replace(text))
}
