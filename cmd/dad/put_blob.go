package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type putBlobResponse struct {
	Commitment string `json:"commitment"`
	Namespace  uint32 `json:"namespace"`
	Size       int64  `json:"size"`
	Receipt    string `json:"receipt,omitempty"`
}

func newPutBlobCmd(baseURL *string, timeoutSeconds *float64) *cobra.Command {
	var ns uint32
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "put-blob [file|-]",
		Short: "post a blob and print its commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
				if os.IsNotExist(err) {
					return newArgError("file not found: %s", args[0])
				}
			}
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: time.Duration(*timeoutSeconds * float64(time.Second))}
			url := strings.TrimRight(*baseURL, "/") + fmt.Sprintf("/da/blob?ns=%d", ns)
			resp, err := client.Post(url, "application/octet-stream", bytes.NewReader(data))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 300 {
				return fmt.Errorf("upload failed: %s: %s", resp.Status, string(body))
			}

			var out putBlobResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Namespace : %d\n", out.Namespace)
			fmt.Fprintf(cmd.OutOrStdout(), "Size      : %d bytes\n", out.Size)
			fmt.Fprintf(cmd.OutOrStdout(), "Commitment: %s\n", out.Commitment)
			if out.Receipt != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Receipt   : %s\n", out.Receipt)
			}
			return nil
		},
	}
	cmd.Flags().Uint32Var(&ns, "ns", 0, "namespace id (uint32)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON output")
	_ = cmd.MarkFlagRequired("ns")
	return cmd
}
