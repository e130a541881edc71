package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	userID  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "evraktakip-cli",
		Short: "EvrakTakip CLI tool",
		Long:  `A command line interface for interacting with the EvrakTakip API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the EvrakTakip API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "User id sent as the acting user")

	rootCmd.AddCommand(documentsCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(loansCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func documentsCmd() *cobra.Command {
	var kind, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := fmt.Sprintf("?limit=%d", limit)
			if kind != "" {
				query += "&kind=" + kind
			}
			if status != "" {
				query += "&status=" + status
			}
			return getJSON("/api/v1/documents" + query)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by document kind (cek, senet)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by document status")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of documents")

	return cmd
}

func importCmd() *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import documents from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/imports"
			if preview {
				path = "/api/v1/imports/preview"
			}
			return uploadWorkbook(path, args[0])
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Validate without persisting anything")

	return cmd
}

func loansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Loan operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/loans")
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary <loan-id>",
		Short: "Show the installment summary of a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/loans/" + args[0] + "/summary")
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(summaryCmd)

	return cmd
}

func getJSON(path string) error {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}

	return doRequest(req)
}

// uploadWorkbook posts one xlsx file as a multipart form.
func uploadWorkbook(path, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(file))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return doRequest(req)
}

func doRequest(req *http.Request) error {
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		fmt.Println(string(body))
		return nil
	}

	printJSON(payload)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
