package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourusername/indcric-api/internal/pubsub"
	"github.com/yourusername/indcric-api/pkg/database"
)

// ActionFlush действие уведомления, которое публикует flush-ad-cache
const ActionFlush = "flush"

func newFlushAdCacheCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "flush-ad-cache",
		Short: "Ask every running API instance to drop its ad cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			client, err := database.NewUniversalRedisClient(cmd.Context(), cfg.Redis)
			if err != nil {
				return err
			}
			defer client.Close()

			ps, err := pubsub.NewRedisPubSub(client)
			if err != nil {
				return err
			}
			defer ps.Close()
			return publishFlush(cmd, ps)
		},
	}
}

func publishFlush(cmd *cobra.Command, ps pubsub.Provider) error {
	if err := pubsub.PublishAdChange(cmd.Context(), ps, pubsub.AdChange{Action: ActionFlush}); err != nil {
		return err
	}
	log.Info().Str("channel", pubsub.ChannelAdsChanged).Msg("Команда сброса кеша рекламы отправлена")
	return nil
}
