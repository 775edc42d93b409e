package util

import (
	"io"
	"net/http"
	"time"
)

// GetBytes fetches url and returns the body together with the status code.
func GetBytes(url string) ([]byte, int, error) {
	client := http.Client{Timeout: 12 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return b, resp.StatusCode, err
}
