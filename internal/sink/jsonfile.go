// Package sink handles the output side of a crawl run: the JSON interchange
// file between the crawl and load stages, and the stamped full-replace write
// into the store.
package sink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mercalytics/catalog-crawler/internal/listing"
)

// WriteRaw writes raw listings to path as a JSON array. The field names are
// the interchange contract and must stay stable so the load stage can be
// rerun against old files.
func WriteRaw(path string, raws []listing.Raw) error {
	if raws == nil {
		raws = []listing.Raw{}
	}
	data, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal listings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadRaw reads raw listings from path. Both interchange shapes are
// accepted: a JSON array of objects, or line-delimited objects.
func ReadRaw(path string) ([]listing.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	if trimmed[0] == '[' {
		var raws []listing.Raw
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return raws, nil
	}

	var raws []listing.Raw
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var raw listing.Raw
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("decode line of %s: %w", path, err)
		}
		raws = append(raws, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return raws, nil
}
