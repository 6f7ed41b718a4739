// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container detects a local container runtime and runs one-shot
// containers that read stdin and write stdout.
package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime provides the container operations the extractors need.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available() bool

	// ImageExists returns nil when the image is present locally.
	ImageExists(image string) error

	// Run executes image with networking disabled, piping stdin and stdout.
	// args follow the image name. Cancelling ctx kills the client process.
	Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer, args ...string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

// runtime implements Runtime for docker and podman, which differ only in the
// binary name and the image check subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := append(append([]string{}, r.imageCheckCmd...), image)
	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer, args ...string) error {
	argv := append([]string{"run", "--rm", "-i", "--network", "none", image}, args...)
	if err := r.exec.RunPiped(ctx, r.bin, argv, stdin, stdout); err != nil {
		return fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	return nil
}

func newRuntime(bin string, ex executor) *runtime {
	check := []string{"image", "inspect"}
	if bin == binPodman {
		check = []string{"image", "exists"}
	}
	return &runtime{bin: bin, imageCheckCmd: check, exec: ex}
}

// DetectRuntime tries docker first, then podman.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(osExecutor{})
}

func detectRuntime(ex executor) (Runtime, error) {
	for _, bin := range []string{binDocker, binPodman} {
		if rt := newRuntime(bin, ex); rt.Available() {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: neither %s nor %s found or operational", binDocker, binPodman)
}
