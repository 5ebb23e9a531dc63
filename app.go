package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kwv/headreg/mesh"
)

const defaultConfigFile = "config.yaml"

// App encapsulates the application state and dependencies
type App struct {
	Config     *mesh.Config
	Aligner    *mesh.Aligner
	Results    *mesh.ResultStore
	MQTTClient *mesh.MQTTClient
	Publisher  *mesh.Publisher
	Out        io.Writer

	// CLI Flags (effectively dependencies)
	ConfigFile  string
	RequestFile string
	OutputFile  string
	HttpPort    int
	MqttMode    bool
	HttpMode    bool
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{
		Results: mesh.NewResultStore(32),
		Out:     os.Stdout,
	}
}

// ApplyOptions applies CLI options to the App instance
func (a *App) ApplyOptions(opts AppOptions) {
	a.ConfigFile = opts.ConfigFile
	a.RequestFile = opts.RequestFile
	a.OutputFile = opts.OutputFile
	a.HttpPort = opts.HttpPort
	a.MqttMode = opts.MqttMode
	a.HttpMode = opts.HttpMode
}

// loadConfig reads the config file. A missing default config.yaml falls back
// to built-in defaults; an explicitly named file must exist.
func (a *App) loadConfig() error {
	if a.Config == nil {
		config, err := mesh.LoadConfig(a.ConfigFile)
		if err != nil {
			if _, statErr := os.Stat(a.ConfigFile); os.IsNotExist(statErr) && (a.ConfigFile == defaultConfigFile || a.ConfigFile == "") {
				log.Printf("No config at %s, using defaults", defaultConfigFile)
				config = mesh.DefaultConfig()
			} else {
				return err
			}
		} else {
			log.Printf("Loaded config from %s", a.ConfigFile)
		}
		a.Config = config
	}
	if a.Aligner == nil {
		a.Aligner = mesh.NewAligner(a.Config, nil)
	}
	return nil
}

// process runs one attempt and records its result.
func (a *App) process(ctx context.Context, req *mesh.AttemptRequest) (*mesh.AttemptResult, error) {
	attempt, err := req.Attempt()
	if err != nil {
		return nil, err
	}
	log.Printf("Attempt %s: mri %d vertices, head %d vertices",
		attempt.ID, attempt.MRI.Mesh.VertexCount(), attempt.Head.Mesh.VertexCount())

	result, err := a.Aligner.Run(ctx, attempt)
	if err != nil {
		return nil, err
	}
	a.Results.Put(result)
	return result, nil
}

// RunOnce processes the request file and writes the result.
func (a *App) RunOnce() error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	req, err := mesh.LoadAttemptRequest(a.RequestFile)
	if err != nil {
		return err
	}
	result, err := a.process(context.Background(), req)
	if err != nil {
		return err
	}

	if a.OutputFile != "" {
		if err := mesh.SaveResult(result, a.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Wrote result %s to %s\n", result.ID, a.OutputFile)
	} else {
		enc := json.NewEncoder(a.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	}

	for _, ag := range result.Agreement {
		status := "ok"
		if !ag.Agrees {
			status = "excluded"
		}
		log.Printf("  %-20s %.4f m  %s", ag.Name, ag.Distance, status)
	}
	return nil
}

// handleRequest is the MQTT request callback.
func (a *App) handleRequest(topic string, raw []byte, req *mesh.AttemptRequest, err error) {
	if err != nil {
		log.Printf("Dropping request from %s: %v", topic, err)
		a.publishError("", err)
		return
	}

	result, err := a.process(context.Background(), req)
	if err != nil {
		log.Printf("Attempt failed: %v", err)
		a.publishError(req.ID, err)
		return
	}

	if a.Publisher != nil {
		if err := a.Publisher.PublishResult(result); err != nil {
			log.Printf("Error publishing result %s: %v", result.ID, err)
		}
	}
}

func (a *App) publishError(id string, attemptErr error) {
	if a.Publisher == nil {
		return
	}
	if err := a.Publisher.PublishError(id, attemptErr); err != nil {
		log.Printf("Error publishing failure report: %v", err)
	}
}

// RunService runs the MQTT consumer and/or HTTP server until interrupted.
func (a *App) RunService() {
	fmt.Fprintln(a.Out, "Starting headreg service...")

	if err := a.loadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v (looked at %s)", err, a.ConfigFile)
	}

	if a.MqttMode {
		client, err := mesh.InitMQTT(a.Config, a.handleRequest)
		if err != nil {
			log.Fatalf("Failed to initialize MQTT: %v", err)
		}
		if client != nil {
			a.MQTTClient = client
			a.Publisher = mesh.NewPublisher(client.GetClient(), a.Config.MQTT.PublishPrefix)
		}
	}

	var server *http.Server
	if a.HttpMode {
		server = &http.Server{
			Addr:              fmt.Sprintf(":%d", a.HttpPort),
			Handler:           newHTTPServer(a),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("HTTP server listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("HTTP server error: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Fprintln(a.Out, "\nShutting down...")
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
	}
	if a.MQTTClient != nil {
		a.MQTTClient.Disconnect()
	}
}
