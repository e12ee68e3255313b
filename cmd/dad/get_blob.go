package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newGetBlobCmd(baseURL *string, timeoutSeconds *float64) *cobra.Command {
	var commitment string
	var rangeStart, rangeLen int64
	var outPath string

	cmd := &cobra.Command{
		Use:   "get-blob",
		Short: "fetch a blob by commitment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hex := strings.TrimPrefix(strings.ToLower(commitment), "0x")
			if len(hex) != 64 {
				return newArgError("commitment must be 32 bytes (64 hex chars)")
			}

			req, err := http.NewRequest(http.MethodGet, strings.TrimRight(*baseURL, "/")+"/da/blob/"+hex, nil)
			if err != nil {
				return err
			}
			if rangeLen > 0 {
				if rangeStart < 0 {
					return newArgError("range values must be non-negative")
				}
				req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", rangeStart, rangeStart+rangeLen-1))
			}

			client := &http.Client{Timeout: time.Duration(*timeoutSeconds * float64(time.Second))}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 300 {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("download failed: %s: %s", resp.Status, string(body))
			}

			out := cmd.OutOrStdout()
			if outPath != "-" && outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			_, err = io.Copy(out, resp.Body)
			return err
		},
	}
	cmd.Flags().StringVar(&commitment, "commit", "", "blob commitment as hex")
	cmd.Flags().Int64Var(&rangeStart, "range-start", 0, "optional byte-range start")
	cmd.Flags().Int64Var(&rangeLen, "range-len", 0, "optional byte-range length")
	cmd.Flags().StringVar(&outPath, "out", "-", "output path ('-' for stdout)")
	_ = cmd.MarkFlagRequired("commit")
	return cmd
}
