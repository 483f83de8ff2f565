package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Interactive client for the draft API. Each generated draft keeps its
// session id so follow-up commands (show, export) target the same document.

var baseURL string

func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // generation can take minutes, no client timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(string(b))
}

func main() {
	flag.StringVar(&baseURL, "api", "http://localhost:3000/api", "draft API base URL")
	model := flag.String("model", "", "model id (server default when empty)")
	chunks := flag.Int("chunks", 3, "retrieved chunk count (1-10)")
	flag.Parse()

	color.Cyan("SmartDraft interactive client (%s)", baseURL)
	color.Cyan("Commands: <prompt text> | :show | :export | :sessions | :status | :clear-cache | :quit")

	scanner := bufio.NewScanner(os.Stdin)
	sessionId := ""

	for {
		color.Yellow("\n> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == ":quit" || line == ":q":
			return

		case line == ":sessions":
			_, body, err := sendRequest("GET", "/draft/v1/sessions", nil)
			if err != nil {
				color.Red("Failed: %v", err)
				continue
			}
			prettyPrint(body)

		case line == ":status":
			_, body, err := sendRequest("GET", "/draft/v1/status", nil)
			if err != nil {
				color.Red("Failed: %v", err)
				continue
			}
			prettyPrint(body)

		case line == ":clear-cache":
			resp, _, err := sendRequest("POST", "/draft/v1/clear-cache", nil)
			if err != nil {
				color.Red("Failed: %v", err)
				continue
			}
			color.Green("Status: %s", resp.Status)

		case line == ":show":
			if sessionId == "" {
				color.Red("No active session yet, generate a draft first")
				continue
			}
			_, body, err := sendRequest("GET", "/draft/v1/session/"+sessionId, nil)
			if err != nil {
				color.Red("Failed: %v", err)
				continue
			}
			prettyPrint(body)

		case line == ":export":
			if sessionId == "" {
				color.Red("No active session yet, generate a draft first")
				continue
			}
			_, body, err := sendRequest("GET", "/draft/v1/session/"+sessionId+"/export", nil)
			if err != nil {
				color.Red("Failed: %v", err)
				continue
			}
			fmt.Println(string(body))

		default:
			req := map[string]interface{}{
				"prompt":      line,
				"chunk_count": *chunks,
			}
			if *model != "" {
				req["model_id"] = *model
			}
			if sessionId != "" {
				req["session_id"] = sessionId
			}

			color.Cyan("Generating...")
			resp, body, err := sendRequest("POST", "/draft/v1/generate", req)
			if err != nil {
				color.Red("Failed: %v", err)
				continue
			}
			if resp.StatusCode != http.StatusOK {
				color.Red("Status: %s", resp.Status)
				prettyPrint(body)
				continue
			}

			var envelope struct {
				Data struct {
					SessionId     string `json:"session_id"`
					MemoryWarning string `json:"memory_warning"`
					Document      struct {
						FormattedText         string  `json:"formatted_text"`
						GenerationTimeSeconds float64 `json:"generation_time_seconds"`
					} `json:"document"`
				} `json:"data"`
			}
			if err := json.Unmarshal(body, &envelope); err != nil {
				prettyPrint(body)
				continue
			}

			sessionId = envelope.Data.SessionId
			if envelope.Data.MemoryWarning != "" {
				color.Red("Warning: %s", envelope.Data.MemoryWarning)
			}
			fmt.Println(envelope.Data.Document.FormattedText)
			color.Green("Done in %.1fs (session %s)", envelope.Data.Document.GenerationTimeSeconds, sessionId)
		}
	}
}
