package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

var (
	serverURL = flag.String("server", "http://localhost:3000", "Relay base URL")
	mode      = flag.String("mode", "speak", "Route to exercise: transcribe, speak or webhook")
	file      = flag.String("file", "", "Audio file to transcribe")
	text      = flag.String("text", "Hello from the relay client", "Text to synthesize")
	voice     = flag.String("voice", "", "Synthesis voice (server default when empty)")
	format    = flag.String("format", "mp3", "Synthesis output format")
	out       = flag.String("out", "", "Where to write synthesized audio (default speech.<format>)")
	payload   = flag.String("payload", `{"msg":"hi"}`, "JSON object sent to the webhook route")
	clientID  = flag.String("client-id", "", "Value for the X-Client-Id header")
	secret    = flag.String("secret", "", "Value for the X-Relay-Secret header")
	timeout   = flag.Duration("timeout", 90*time.Second, "Request timeout")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// Setup logger
	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := NewClient(ClientConfig{
		BaseURL:  *serverURL,
		ClientID: *clientID,
		Secret:   *secret,
		Timeout:  *timeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var result *Result
	switch *mode {
	case "transcribe":
		if *file == "" {
			logger.Fatal("-file is required for transcribe")
		}
		data, err := os.ReadFile(*file)
		if err != nil {
			logger.Fatal("Failed to read audio file", zap.Error(err))
		}
		result, err = client.Transcribe(ctx, *file, data)
		if err != nil {
			logger.Fatal("Transcription failed", zap.Error(err))
		}
	case "speak":
		result, err = client.Speak(ctx, *text, *voice, *format)
		if err != nil {
			logger.Fatal("Synthesis failed", zap.Error(err))
		}
		if result.StatusCode == 200 {
			dst := *out
			if dst == "" {
				dst = "speech." + *format
			}
			if err := os.WriteFile(dst, result.Body, 0o644); err != nil {
				logger.Fatal("Failed to write audio", zap.Error(err))
			}
			fmt.Printf("%d %s -> %s (%d bytes)\n", result.StatusCode, result.ContentType, dst, len(result.Body))
			return
		}
	case "webhook":
		result, err = client.Webhook(ctx, []byte(*payload))
		if err != nil {
			logger.Fatal("Webhook relay failed", zap.Error(err))
		}
	default:
		logger.Fatal("Unknown mode", zap.String("mode", *mode))
	}

	fmt.Printf("%d %s\n%s\n", result.StatusCode, result.ContentType, result.Body)
	if result.StatusCode >= 400 {
		os.Exit(1)
	}
}
