// Command ragrelay runs the gateway against a console-backed channel: each
// input line becomes an ask command, "/hello" exercises the greeting. The
// real chat transport plugs in by implementing responder.Channel and calling
// Router().Route per inbound event.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"

	"github.com/ragrelay/ragrelay"
	"github.com/ragrelay/ragrelay/agent"
	"github.com/ragrelay/ragrelay/config"
	"github.com/ragrelay/ragrelay/corpus"
	"github.com/ragrelay/ragrelay/logging"
	"github.com/ragrelay/ragrelay/model"
	"github.com/ragrelay/ragrelay/model/anthropic"
	"github.com/ragrelay/ragrelay/model/openai"
	"github.com/ragrelay/ragrelay/responder"
	"github.com/ragrelay/ragrelay/tool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ragrelay:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when omitted)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger := newLogger(cfg)

	completer, embedder, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	texts, err := corpus.LoadDir(cfg.DocumentsDir)
	if err != nil {
		return err
	}

	ctx := context.Background()
	gw, err := ragrelay.New(ctx, completer, embedder, newConsoleChannel(),
		func(o *ragrelay.Options) {
			o.Documents = texts
			o.HyperliquidEndpoint = cfg.HyperliquidEndpoint
			o.ExtraTools = []tool.Tool{clockTool()}
			o.Logger = logger
			o.AgentOptions = []func(a *agent.Options){func(a *agent.Options) {
				a.TopK = cfg.TopK
				a.MaxToolIterations = cfg.MaxToolIterations
				a.CharLimit = cfg.ResponseCharLimit
			}}
		})
	if err != nil {
		return err
	}

	logger.Info("gateway.ready",
		"provider", cfg.Provider, "documents", len(texts), "tools", gw.Tools())

	fmt.Println("ragrelay console - type a question, /hello for the greeting, Ctrl-D to quit")
	router := gw.Router()
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		cmd := responder.Command{Name: responder.CommandAsk, ChannelID: "console", Query: line}
		if line == "/hello" {
			cmd = responder.Command{Name: responder.CommandHello, ChannelID: "console"}
		}
		router.Route(ctx, cmd)
	}
	return scanner.Err()
}

func newLogger(cfg *config.Config) logging.Logger {
	logCfg := &logging.Config{Level: cfg.SlogLevel(), Format: cfg.LogFormat}
	if cfg.LogFile != "" {
		logCfg.Output = logging.NewRotatingWriter(cfg.LogFile, 50, 5)
	} else {
		logCfg.Output = os.Stderr
	}
	return logging.New(logCfg)
}

func buildProvider(cfg *config.Config) (model.Completer, model.Embedder, error) {
	// Embeddings always come from OpenAI; Anthropic has no embedding endpoint.
	embedderModel := openai.NewModel(func(o *openai.Options) {
		if cfg.EmbeddingModel != "" {
			o.EmbeddingModel = cfg.EmbeddingModel
		}
	})

	switch cfg.Provider {
	case "anthropic":
		completer := anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.CompletionModel != "" {
				o.Model = anthropicsdk.Model(cfg.CompletionModel)
			}
		})
		return completer, embedderModel, nil
	case "openai":
		completer := openai.NewModel(func(o *openai.Options) {
			if cfg.CompletionModel != "" {
				o.Model = cfg.CompletionModel
			}
		})
		return completer, embedderModel, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// clockTool reports the current UTC time, so tool calling can be exercised
// without hitting the market upstream.
func clockTool() tool.Tool {
	return tool.NewFunctionTool(
		"current_time",
		"Report the current UTC time in RFC 3339 format",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(context.Context, map[string]any) (string, error) {
			return time.Now().UTC().Format(time.RFC3339), nil
		},
	)
}

// consoleChannel satisfies responder.Channel for local interaction: the ack
// placeholder is a printed line, the edit prints the final text.
type consoleChannel struct {
	seq atomic.Int64
}

func newConsoleChannel() *consoleChannel { return &consoleChannel{} }

func (c *consoleChannel) SendAck(_ context.Context, channelID string) (string, error) {
	handle := fmt.Sprintf("%s-%d", channelID, c.seq.Add(1))
	fmt.Println("... thinking ...")
	return handle, nil
}

func (c *consoleChannel) Edit(_ context.Context, _ string, text string) error {
	fmt.Println(text)
	return nil
}

func (c *consoleChannel) SendError(_ context.Context, _ string, text string) error {
	fmt.Println(text)
	return nil
}
