// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

func (c *Client) httpGET(url string) ([]byte, error) {
	return c.httpRequest(http.MethodGet, url, nil)
}

func (c *Client) httpPOST(url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return c.httpRequest(http.MethodPost, url, bytes.NewBuffer(data))
}

func (c *Client) httpRequest(method, url string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return responseBody, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s - %w", strings.TrimSpace(string(responseBody)), ErrNotFound)
	default:
		return nil, fmt.Errorf("http error - Status Code %d - %s - %w", resp.StatusCode, strings.TrimSpace(string(responseBody)), ErrNot200Status)
	}
}
