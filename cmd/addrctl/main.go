package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/address-resolver/app/bootstrap"
	"github.com/address-resolver/app/config"
	"github.com/address-resolver/app/models"
	"github.com/address-resolver/app/requests"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/internal/resolver"
	"github.com/address-resolver/internal/search"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	settings *config.Settings
	logger   *zap.Logger
)

func main() {
	var err error

	settings, err = config.LoadSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	logger, err = bootstrap.NewLogger(settings)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:   "addrctl",
		Short: "Vietnamese address resolver CLI",
		Long:  `Resolve địa chỉ tiếng Việt thành tỉnh / quận-huyện / phường-xã theo gazetteer cũ và mới`,
	}

	rootCmd.AddCommand(createParseCmd())
	rootCmd.AddCommand(createTagCmd())
	rootCmd.AddCommand(createBatchCmd())
	rootCmd.AddCommand(createPublishCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newService nạp gazetteer và tạo AddressService không cache
func newService(ctx context.Context) (*services.AddressService, *resolver.Resolver, error) {
	idx, err := bootstrap.LoadIndex(ctx, settings, logger)
	if err != nil {
		return nil, nil, err
	}
	res, err := bootstrap.NewResolver(settings, idx, logger)
	if err != nil {
		return nil, nil, err
	}
	return services.NewAddressService(res, nil, settings.BatchWorkers, logger), res, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// createParseCmd resolve một địa chỉ
func createParseCmd() *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "parse [address]",
		Short: "Resolve một địa chỉ và in ParsedAddress dạng JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			if !trace {
				parsed, err := res.ResolveStrict(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), parsed)
			}
			return printJSON(cmd.OutOrStdout(), res.ResolveDetailed(args[0]))
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "in kèm các bước gán")
	return cmd
}

// createTagCmd gắn nhãn BIO
func createTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag [address]",
		Short: "Gắn nhãn BIO cho các token của địa chỉ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			tokens, _, err := svc.Tag(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintf(out, "%s\t%s\n", tok.Word, tok.Entity)
			}
			return nil
		},
	}
}

// createBatchCmd resolve file nhiều dòng ra NDJSON
func createBatchCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve mỗi dòng của file đầu vào, ghi kết quả NDJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(cmd.Context())
			if err != nil {
				return err
			}

			src, err := os.Open(in)
			if err != nil {
				return err
			}
			defer src.Close()

			var dst io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				dst = f
			}

			n, err := runBatch(cmd.Context(), svc, src, dst)
			if err != nil {
				return err
			}
			logger.Info("Batch completed", zap.Int("addresses", n), zap.String("out", out))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "file địa chỉ, mỗi dòng một địa chỉ")
	cmd.Flags().StringVar(&out, "out", "-", "file NDJSON kết quả")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

// runBatch đọc từng dòng, dòng trống vẫn có một kết quả rỗng để giữ thứ tự
func runBatch(ctx context.Context, svc *services.AddressService, r io.Reader, w io.Writer) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		result, _, err := svc.ParseAddress(ctx, line, requests.ParseOptions{})
		if err != nil {
			result = &models.AddressResult{
				Raw:    line,
				Parsed: resolver.ParsedAddress{SubSubdivision: []string{}},
				Status: models.StatusEmpty,
				Error:  err.Error(),
			}
		}
		if err := enc.Encode(result); err != nil {
			return n, err
		}
		n++
	}
	return n, scanner.Err()
}

// createPublishCmd đẩy gazetteer lên Meilisearch
func createPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish gazetteer lên Meilisearch (MEILI_URL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := bootstrap.LoadIndex(cmd.Context(), settings, logger)
			if err != nil {
				return err
			}
			publisher, err := search.NewPublisher(search.Config{
				Host:      settings.MeiliURL,
				APIKey:    settings.MeiliKey,
				IndexName: settings.MeiliIndex,
			}, logger)
			if err != nil {
				return err
			}
			report, err := publisher.Publish(cmd.Context(), idx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}
