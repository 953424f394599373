package jsonfetcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	URL        string
	Body       []byte
}

// Fetch executes req and reads the whole body. Only transport failures are
// returned as errors; any status code is a valid Response.
func Fetch(client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
		Body:       body,
	}, nil
}

// Decode unmarshals a JSON body into v. Numbers held in untyped values stay
// json.Number so they print exactly as the server sent them.
func Decode(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("error decoding JSON: %w", err)
	}

	// A body is exactly one JSON value
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return errors.New("error decoding JSON: unexpected data after top-level value")
	}
	return nil
}
