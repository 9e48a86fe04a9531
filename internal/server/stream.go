package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"
)

const streamInterval = 66 * time.Millisecond // ~15 FPS

// FrameSource yields the latest processed camera frame. The returned Mat is
// a copy owned by the caller; ok is false while no frame exists yet.
type FrameSource interface {
	LatestFrame() (frame gocv.Mat, ok bool)
}

// StreamHandler serves MJPEG frames from the tracker preview.
type StreamHandler struct {
	frames FrameSource
}

// NewStreamHandler creates a new StreamHandler for the given source.
func NewStreamHandler(frames FrameSource) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		frame, ok := h.frames.LatestFrame()
		if !ok {
			continue
		}

		buf, err := gocv.IMEncode(".jpg", frame)
		frame.Close()
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		_, werr := w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()
		if werr != nil {
			return
		}

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
