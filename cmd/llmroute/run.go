package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/provider"
)

// runFlags run 子命令参数
type runFlags struct {
	configPath string
	model      string
	apiKey     string
	baseURL    string
	timeout    time.Duration
}

// overrides 把命令行参数转换为配置覆盖项
func (f *runFlags) overrides() llm.Config {
	return llm.Config{
		ModelName: f.model,
		APIKey:    f.apiKey,
		BaseURL:   f.baseURL,
		Timeout:   f.timeout,
	}
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [prompt...]",
		Short: "Send one prompt and print the generated text",
		Long: `Send one prompt to the backend selected by the model name.

The prompt is taken from the arguments, or from stdin when no argument
is given. Flags override values from the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(f)
			if err != nil {
				return err
			}

			prompt, err := readPrompt(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			logger := newLogger(cmd, g.verbose)
			logger.Debug("dispatching prompt",
				"model", cfg.ModelName,
				"variant", cfg.Variant().String(),
				"timeout", cfg.Timeout,
			)

			p, err := provider.NewFromConfig(cfg, provider.WithLogger(logger))
			if err != nil {
				return reportError(cmd.ErrOrStderr(), err)
			}
			defer func() { _ = p.Close() }()

			start := time.Now()
			text, err := p.GenerateContent(cmd.Context(), prompt)
			if err != nil {
				return reportError(cmd.ErrOrStderr(), err)
			}

			if g.verbose {
				color.New(color.FgHiBlack).Fprintf(cmd.ErrOrStderr(), "[%s %s %s]\n",
					p.Variant(), p.Model(), time.Since(start).Round(time.Millisecond))
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model name (overrides config)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "fallback API key when the variant env var is unset")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "override backend base URL")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "request timeout (e.g. 30s)")
	return cmd
}

// loadRunConfig 加载配置文件并合并命令行参数
func loadRunConfig(f *runFlags) (*llm.Config, error) {
	fileCfg, err := llm.LoadConfigOrDefault(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := fileCfg.Merge(f.overrides())
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// readPrompt 从参数或标准输入读取提示
func readPrompt(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading prompt from stdin: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("prompt is empty")
	}
	return prompt, nil
}

// reportError 输出错误对应的处理提示，原样返回 err
//
// 凭证缺失时提示需要设置的环境变量。
func reportError(w io.Writer, err error) error {
	yellow := color.New(color.FgYellow)

	var missing *llm.MissingCredentialError
	if errors.As(err, &missing) {
		yellow.Fprintf(w, "hint: export %s or pass --api-key\n", missing.EnvVar)
	}
	if llm.IsRetryableError(err) {
		yellow.Fprintln(w, "hint: the backend reported a transient failure, try again later")
	}
	return err
}
