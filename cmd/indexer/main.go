// Command indexer is the offline administration tool for the vector
// collection. Rebuilds never run inside the chat server; retrieval
// traffic must not race a collection mid-rebuild.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fabiokp/chatbot-wto/internal/chunker"
	"github.com/fabiokp/chatbot-wto/internal/config"
	"github.com/fabiokp/chatbot-wto/internal/corpus"
	"github.com/fabiokp/chatbot-wto/internal/service"
	"github.com/fabiokp/chatbot-wto/internal/store"
)

func main() {
	var configPath, corpusPath, pdfDir string

	root := &cobra.Command{
		Use:   "indexer",
		Short: "Manage the legal-texts vector collection",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file (optional)")

	rebuild := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the collection from the scraped corpus feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if corpusPath == "" {
				corpusPath = cfg.Index.CorpusPath
			}

			records, err := corpus.Load(corpusPath, pdfDir)
			if err != nil {
				return err
			}
			log.Printf("loaded %d indexable records from %s", len(records), corpusPath)

			vectorStore, err := store.Open(cfg.Store)
			if err != nil {
				return err
			}
			defer vectorStore.Close()

			ck, err := chunker.New(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
			if err != nil {
				return err
			}

			llm := service.NewLLMClient(cfg.LLM)
			ix := service.NewIndexer(vectorStore, llm, ck, cfg.Store.Collection, cfg.Index.EmbedRate)

			status, err := ix.Rebuild(cmd.Context(), records)
			if err != nil {
				return fmt.Errorf("rebuild failed, collection may be missing or stale: %w", err)
			}
			printStatus(status)
			return nil
		},
	}
	rebuild.Flags().StringVar(&corpusPath, "corpus", "", "path to the scraped JSON feed (default from config)")
	rebuild.Flags().StringVar(&pdfDir, "pdf-dir", "", "directory of local PDFs to fill empty-content records")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the collection's rebuild state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			vectorStore, err := store.Open(cfg.Store)
			if err != nil {
				return err
			}
			defer vectorStore.Close()

			st, err := vectorStore.Status(cmd.Context(), cfg.Store.Collection)
			if err != nil {
				return err
			}
			printStatus(st)
			return nil
		},
	}

	root.AddCommand(rebuild, status)

	_ = godotenv.Load()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func printStatus(st store.Status) {
	if !st.Exists {
		fmt.Printf("collection %s: not yet built\n", st.Collection)
		return
	}
	if st.RebuiltAt.IsZero() {
		fmt.Printf("collection %s: %d chunks\n", st.Collection, st.Chunks)
		return
	}
	fmt.Printf("collection %s: %d chunks, rebuilt %s\n", st.Collection, st.Chunks, st.RebuiltAt.Format("2006-01-02 15:04:05 MST"))
}
