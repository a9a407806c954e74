package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	appconfig "github.com/weisyn/unitledger/internal/config"
	"github.com/weisyn/unitledger/internal/core/infrastructure/event"
	badgerstore "github.com/weisyn/unitledger/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/unitledger/pkg/types"
)

// journalCmd 按追加顺序回放事件日志
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "回放持久化事件日志（每行一条JSON）",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.LoadAppConfig(globalFlags.ConfigFile)
		if err != nil {
			return err
		}
		provider := appconfig.NewProvider(cfg)

		store, err := badgerstore.New(provider.GetBadger(), nil)
		if err != nil {
			return fmt.Errorf("打开存储失败: %w", err)
		}
		defer store.Close()

		journal, err := event.NewBadgerJournal(store)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(os.Stdout)
		count := 0
		err = journal.Replay(func(evt *types.LedgerEvent) error {
			count++
			return encoder.Encode(evt)
		})
		if err != nil {
			return fmt.Errorf("回放事件日志失败: %w", err)
		}

		fmt.Fprintf(os.Stderr, "共回放 %d 条事件记录\n", count)
		return nil
	},
}
