package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// SizeEstimator reports the approximate size of a bucket in gigabytes.
type SizeEstimator interface {
	BucketSizeGB(ctx context.Context, bucket string) (float64, error)
}

// GSUtilSizer estimates bucket size by shelling out to `gsutil du` and
// summing the per-object byte counts, the same measurement operators run
// by hand.
type GSUtilSizer struct {
	// Binary is the gsutil executable. Default: "gsutil".
	Binary string

	// Timeout bounds the subprocess; a hung gsutil must not stall a scan.
	// Default: 2m
	Timeout time.Duration

	logger *slog.Logger
}

// NewGSUtilSizer creates a sizer with defaults applied.
func NewGSUtilSizer(binary string, timeout time.Duration) *GSUtilSizer {
	if binary == "" {
		binary = "gsutil"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &GSUtilSizer{
		Binary:  binary,
		Timeout: timeout,
		logger:  slog.Default().With("component", "notify.sizer"),
	}
}

// BucketSizeGB runs `gsutil du gs://<bucket>` and returns the summed size
// scaled to gigabytes (1e9 bytes).
func (s *GSUtilSizer) BucketSizeGB(ctx context.Context, bucket string) (float64, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, s.Binary, "du", "gs://"+bucket)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("gsutil du gs://%s failed: %w", bucket, err)
	}

	totalBytes, err := sumDUOutput(out)
	if err != nil {
		return 0, fmt.Errorf("could not parse gsutil du output for gs://%s: %w", bucket, err)
	}
	sizeGB := float64(totalBytes) / 1e9
	s.logger.Debug("estimated bucket size",
		"bucket", bucket,
		"bytes", totalBytes,
		"size_gb", sizeGB,
	)
	return sizeGB, nil
}

// sumDUOutput adds up the leading byte counts of `gsutil du` lines. Each
// non-empty line is "<bytes>  gs://bucket/object".
func sumDUOutput(out []byte) (int64, error) {
	var total int64
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		size, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("unexpected du line %q: %w", line, err)
		}
		total += size
	}
	return total, nil
}
