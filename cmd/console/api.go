package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/jwebster45206/branch-engine/internal/handlers"
	"github.com/jwebster45206/branch-engine/internal/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func decodeError(statusCode int, body []byte) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", statusCode, string(body))
	}
	return fmt.Errorf("%s", errorResp.Error)
}

func listGames(client *http.Client, baseURL string) ([]storage.GameSummary, error) {
	resp, err := client.Get(baseURL + "/v1/games")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, body)
	}

	var games []storage.GameSummary
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("failed to parse games response: %w", err)
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].Title < games[j].Title
	})
	return games, nil
}

func createRun(client *http.Client, baseURL string, gameID string) (*handlers.RunResponse, error) {
	payload, err := json.Marshal(handlers.CreateRunRequest{GameID: gameID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/runs", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp.StatusCode, body)
	}

	var runResp handlers.RunResponse
	if err := json.Unmarshal(body, &runResp); err != nil {
		return nil, fmt.Errorf("failed to parse run response: %w", err)
	}
	return &runResp, nil
}

func getRun(client *http.Client, baseURL string, runID uuid.UUID) (*handlers.RunResponse, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/runs/%s", baseURL, runID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, body)
	}

	var runResp handlers.RunResponse
	if err := json.Unmarshal(body, &runResp); err != nil {
		return nil, fmt.Errorf("failed to parse run response: %w", err)
	}
	return &runResp, nil
}

func applyChoice(client *http.Client, baseURL string, runID uuid.UUID, choiceID string) (*handlers.RunResponse, error) {
	payload, err := json.Marshal(handlers.ApplyChoiceRequest{ChoiceID: choiceID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/runs/%s/choice", baseURL, runID)
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, body)
	}

	var runResp handlers.RunResponse
	if err := json.Unmarshal(body, &runResp); err != nil {
		return nil, fmt.Errorf("failed to parse run response: %w", err)
	}
	return &runResp, nil
}

func resetRun(client *http.Client, baseURL string, runID uuid.UUID) (*handlers.RunResponse, error) {
	url := fmt.Sprintf("%s/v1/runs/%s/reset", baseURL, runID)
	resp, err := client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, body)
	}

	var runResp handlers.RunResponse
	if err := json.Unmarshal(body, &runResp); err != nil {
		return nil, fmt.Errorf("failed to parse run response: %w", err)
	}
	return &runResp, nil
}
