// Command llmroute 按模型名称把单条提示分派到 Gemini、OpenAI 或 Ollama 后端
//
// 使用方式：
//
//	llmroute run --model gpt-4o "What is 6*7?"
//	echo "hello" | llmroute run --config llm.yaml
//	llmroute variant ollama/mistral
//
// 凭证优先读取环境变量（GEMINI_API_KEY、OPENAI_API_KEY、OLLAMA_API_KEY），
// 其次使用配置文件或 --api-key。启动时会加载当前目录的 .env 文件（如果存在）。
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags 所有子命令共享的参数
type globalFlags struct {
	envFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "llmroute",
		Short: "Dispatch a prompt to Gemini, OpenAI or Ollama by model name",
		Long: `llmroute picks an LLM backend from the model name and sends one prompt.

Model names starting with "ollama/" go to Ollama, names starting with
"gpt" or "o1" go to OpenAI, and everything else goes to Gemini.

Credentials are read from GEMINI_API_KEY, OPENAI_API_KEY or OLLAMA_API_KEY
first, then from the config file or --api-key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(g.envFile)
		},
	}

	root.PersistentFlags().StringVar(&g.envFile, "env-file", "", "dotenv file to load (default .env if present)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log request details to stderr")

	root.AddCommand(newRunCmd(g))
	root.AddCommand(newVariantCmd())
	return root
}

// loadEnvFile 加载 dotenv 文件，已存在的环境变量不会被覆盖
//
// 未显式指定文件时，.env 不存在不算错误。
func loadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// newLogger 创建命令行日志记录器
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}
