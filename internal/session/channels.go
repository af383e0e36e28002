package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// Channel files are single-writer: the coordinator writes options and
// questions, the prompter writes answers and the heartbeat. 0600 keeps other
// users on shared temp dirs out.
const channelMode = 0o600

// PromptPayload is the JSON document the coordinator writes to the options
// channel and the prompter reads back. Field names are part of the on-disk
// contract.
type PromptPayload struct {
	ProjectName       string   `json:"projectName"`
	Prompt            string   `json:"prompt"`
	Timeout           int      `json:"timeout"`
	ShowCountdown     bool     `json:"showCountdown"`
	SessionID         string   `json:"sessionId"`
	OutputFile        string   `json:"outputFile"`
	HeartbeatFile     string   `json:"heartbeatFile"`
	PredefinedOptions []string `json:"predefinedOptions,omitempty"`
}

// ChatOptions configures a persistent chat window.
type ChatOptions struct {
	Title         string `json:"title"`
	SessionID     string `json:"sessionId"`
	HeartbeatFile string `json:"heartbeatFile"`
	Timeout       int    `json:"timeout"`
	ShowCountdown bool   `json:"showCountdown"`
}

// ChatQuestion is one question pushed into an open chat session.
type ChatQuestion struct {
	Index             int      `json:"index"`
	Question          string   `json:"question"`
	OutputFile        string   `json:"outputFile"`
	PredefinedOptions []string `json:"predefinedOptions,omitempty"`
}

// WriteOptions writes the options payload for a single-question session.
func WriteOptions(path string, payload PromptPayload) error {
	return writeJSON(path, payload)
}

// ReadOptions reads a single-question options payload.
func ReadOptions(path string) (PromptPayload, error) {
	var p PromptPayload
	err := readJSON(path, &p)
	return p, err
}

// WriteChatOptions writes the options payload for a chat session.
func WriteChatOptions(path string, opts ChatOptions) error {
	return writeJSON(path, opts)
}

// ReadChatOptions reads a chat options payload.
func ReadChatOptions(path string) (ChatOptions, error) {
	var o ChatOptions
	err := readJSON(path, &o)
	return o, err
}

// WriteQuestion writes one chat question.
func WriteQuestion(path string, q ChatQuestion) error {
	return writeJSON(path, q)
}

// ReadQuestion reads one chat question.
func ReadQuestion(path string) (ChatQuestion, error) {
	var q ChatQuestion
	err := readJSON(path, &q)
	return q, err
}

// InitAnswer truncates the answer channel to empty, so a leftover file from a
// crashed session cannot masquerade as a fresh answer.
func InitAnswer(path string) error {
	if err := os.WriteFile(path, nil, channelMode); err != nil {
		return fmt.Errorf("initialize answer channel: %w", err)
	}
	return nil
}

// ReadAnswer reads the answer channel and trims surrounding whitespace, so a
// trailing newline from the prompt UI never reaches the caller. A missing
// file reports ErrChannelMissing.
func ReadAnswer(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrChannelMissing)
		}
		return "", fmt.Errorf("read answer channel: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteAnswer stores the user's answer for the coordinator to pick up.
func WriteAnswer(path, answer string) error {
	if err := os.WriteFile(path, []byte(answer), channelMode); err != nil {
		return fmt.Errorf("write answer channel: %w", err)
	}
	return nil
}

// TouchHeartbeat refreshes the heartbeat channel. It writes a timestamp body
// because a zero-byte truncate is not guaranteed to advance mtime when the
// size does not change.
func TouchHeartbeat(path string) error {
	stamp := time.Now().Format(time.RFC3339Nano)
	if err := os.WriteFile(path, []byte(stamp), channelMode); err != nil {
		return fmt.Errorf("touch heartbeat channel: %w", err)
	}
	return nil
}

// StatHeartbeat reports the heartbeat channel's last update time. A missing
// file reports ErrChannelMissing; any other failure comes back as-is so the
// caller can treat it differently.
func StatHeartbeat(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%s: %w", path, ErrChannelMissing)
		}
		return time.Time{}, fmt.Errorf("stat heartbeat channel: %w", err)
	}
	return info.ModTime(), nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, channelMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrChannelMissing)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
