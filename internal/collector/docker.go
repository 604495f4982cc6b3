package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/logsift/logsift/internal/config"
)

// CommandRunner executes a shell command somewhere and returns its output.
// Remote satisfies it; tests supply fakes.
type CommandRunner interface {
	Run(ctx context.Context, command string) (stdout, stderr string, err error)
}

// Docker collects container logs and stats through the docker CLI on a host
// reached via a CommandRunner (in practice, the shared SSH connection).
type Docker struct {
	runner CommandRunner
	cfg    config.DockerConfig
	logger *slog.Logger
}

// Container describes one running container.
type Container struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Status string `json:"status"`
}

// ContainerLogs pairs a container's name with its collected log lines.
// Ordering follows the docker ps listing so identical runs classify
// container batches in identical order.
type ContainerLogs struct {
	Name  string
	Lines []string
}

// ContainerStats pairs a container's identity with its live stats snapshot.
type ContainerStats struct {
	Status string          `json:"status"`
	Image  string          `json:"image"`
	Stats  json.RawMessage `json:"stats"`
}

// NewDocker creates a Docker collector over the given runner.
func NewDocker(runner CommandRunner, cfg config.DockerConfig, logger *slog.Logger) *Docker {
	if cfg.Socket == "" {
		cfg.Socket = "/var/run/docker.sock"
	}
	if cfg.MaxLogLines <= 0 {
		cfg.MaxLogLines = 1000
	}
	return &Docker{runner: runner, cfg: cfg, logger: logger}
}

// run prefixes commands with DOCKER_HOST so a non-default socket is honored.
func (d *Docker) run(ctx context.Context, command string) (string, string, error) {
	command = fmt.Sprintf(`DOCKER_HOST="unix://%s" %s`, d.cfg.Socket, command)
	return d.runner.Run(ctx, command)
}

// Containers lists running containers, minus the excluded set.
func (d *Docker) Containers(ctx context.Context) ([]Container, error) {
	stdout, stderr, err := d.run(ctx, `docker ps --format "{{.ID}}\t{{.Names}}\t{{.Image}}\t{{.Status}}"`)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	if stderr != "" {
		d.logger.Warn("docker ps stderr", "output", strings.TrimSpace(stderr))
	}

	excluded := make(map[string]bool, len(d.cfg.ExcludedContainers))
	for _, name := range d.cfg.ExcludedContainers {
		excluded[name] = true
	}

	var containers []Container
	for _, line := range splitLines(stdout) {
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			continue
		}
		if excluded[fields[1]] {
			continue
		}
		containers = append(containers, Container{
			ID:     fields[0],
			Name:   fields[1],
			Image:  fields[2],
			Status: fields[3],
		})
	}
	return containers, nil
}

// Logs fetches log lines per container for the lookback window, in docker ps
// order. When only is non-empty, collection is limited to that container name.
func (d *Docker) Logs(ctx context.Context, lookback time.Duration, only string) ([]ContainerLogs, error) {
	containers, err := d.Containers(ctx)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-lookback).Format("2006-01-02T15:04:05")
	var logs []ContainerLogs

	for _, c := range containers {
		if only != "" && c.Name != only {
			continue
		}

		command := fmt.Sprintf("docker logs --since %s --tail %d --timestamps %s",
			since, d.cfg.MaxLogLines, c.ID)
		stdout, stderr, err := d.run(ctx, command)
		if err != nil {
			d.logger.Warn("failed to get container logs", "container", c.Name, "error", err)
			continue
		}
		if stderr != "" {
			d.logger.Warn("docker logs stderr", "container", c.Name, "output", strings.TrimSpace(stderr))
		}
		if stdout != "" {
			logs = append(logs, ContainerLogs{Name: c.Name, Lines: splitLines(stdout)})
		}
	}

	return logs, nil
}

// Stats gathers one no-stream stats sample per container, for the
// system-info blob handed to the summarizer.
func (d *Docker) Stats(ctx context.Context, only string) (map[string]ContainerStats, error) {
	containers, err := d.Containers(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]ContainerStats)
	for _, c := range containers {
		if only != "" && c.Name != only {
			continue
		}

		command := fmt.Sprintf(`docker stats %s --no-stream --format "{{json .}}"`, c.ID)
		stdout, _, err := d.run(ctx, command)
		if err != nil {
			d.logger.Warn("failed to get container stats", "container", c.Name, "error", err)
			continue
		}

		raw := strings.TrimSpace(stdout)
		if raw == "" || !json.Valid([]byte(raw)) {
			d.logger.Warn("unparseable container stats", "container", c.Name)
			continue
		}
		stats[c.Name] = ContainerStats{
			Status: c.Status,
			Image:  c.Image,
			Stats:  json.RawMessage(raw),
		}
	}

	return stats, nil
}
