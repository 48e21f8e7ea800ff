package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// WatcherService auto-analyzes PDF reports dropped into a local directory,
// running them through the same pipeline as POST /analyze.
type WatcherService struct {
	reports ReportService
}

func NewWatcherService(reports ReportService) *WatcherService {
	return &WatcherService{reports: reports}
}

// WatchDirectory blocks until the context is cancelled, analyzing every PDF
// created or modified under dirPath.
func (s *WatcherService) WatchDirectory(ctx context.Context, dirPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WATCHER ERROR: Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	// Goroutine to handle events from the watcher.
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isReportFile(event.Name) {
					continue
				}

				// Downloads and editors often fire Create followed by
				// several Writes; handling both keeps the last write.
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					log.Printf("WATCHER: Report detected: %s. Analyzing...", event.Name)
					s.analyzeFile(ctx, event.Name)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("WATCHER ERROR: %v", err)
			case <-ctx.Done():
				log.Println("WATCHER: Context cancelled, shutting down watcher.")
				return
			}
		}
	}()

	log.Printf("WATCHER: Watching report directory: %s", dirPath)
	if err := watcher.Add(dirPath); err != nil {
		log.Printf("WATCHER ERROR: Failed to add path to watcher: %v", err)
	}

	// Block until the context is cancelled (e.g., server shutdown).
	<-ctx.Done()
}

func (s *WatcherService) analyzeFile(ctx context.Context, path string) {
	document, err := os.ReadFile(path)
	if err != nil {
		log.Printf("WATCHER WARN: Could not read %s: %v", path, err)
		return
	}
	response, err := s.reports.Analyze(ctx, document)
	if err != nil {
		log.Printf("WATCHER ERROR: Failed to analyze %s: %v", path, err)
		return
	}
	log.Printf("WATCHER: %s analyzed, session %s ready for chat.", filepath.Base(path), response.SessionID)
}

func isReportFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pdf"
}
