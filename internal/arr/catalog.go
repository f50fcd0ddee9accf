package arr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gitdeath/cf-search/internal/upgrade"
)

// MovieCatalog exposes a Radarr instance as an upgrade catalog. An item's
// cutoff is met when its file's custom-format score reaches the cutoff
// score of the movie's quality profile.
type MovieCatalog struct {
	key    string
	client *Client
	log    *slog.Logger
}

// NewMovieCatalog wraps a Radarr client under the given instance key.
func NewMovieCatalog(key string, client *Client, log *slog.Logger) *MovieCatalog {
	if log == nil {
		log = slog.Default()
	}
	return &MovieCatalog{key: key, client: client, log: log}
}

func (c *MovieCatalog) Key() string { return c.key }
func (c *MovieCatalog) URL() string { return c.client.URL() }

// Snapshot lists monitored movies that have a file, with cutoff state.
// Movies whose quality profile is unknown are omitted: without a cutoff
// score there is nothing to compare against.
func (c *MovieCatalog) Snapshot(ctx context.Context) ([]upgrade.Item, error) {
	if err := c.client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	cutoffs, err := c.client.QualityProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("quality profiles: %w", err)
	}

	movies, err := c.client.Movies(ctx)
	if err != nil {
		return nil, fmt.Errorf("movies: %w", err)
	}

	var items []upgrade.Item
	for _, m := range movies {
		if !m.Monitored || !m.HasFile || m.MovieFile == nil {
			continue
		}
		cutoff, ok := cutoffs[m.QualityProfileID]
		if !ok {
			c.log.Debug("movie has unknown quality profile", "title", m.Title, "profile", m.QualityProfileID)
			continue
		}
		items = append(items, upgrade.Item{
			ID:        m.ID,
			Title:     m.Title,
			CutoffMet: m.MovieFile.CustomFormatScore >= cutoff,
		})
	}
	return items, nil
}

// Search enqueues a MoviesSearch command for the given movie IDs.
func (c *MovieCatalog) Search(ctx context.Context, ids []int64) error {
	return c.client.TriggerSearch(ctx, "MoviesSearch", "movieIds", ids)
}

// EpisodeCatalog exposes a Sonarr instance as an upgrade catalog. Items
// are individual monitored episodes that have a file; the cutoff score
// comes from the series' quality profile.
type EpisodeCatalog struct {
	key    string
	client *Client
	log    *slog.Logger
}

// NewEpisodeCatalog wraps a Sonarr client under the given instance key.
func NewEpisodeCatalog(key string, client *Client, log *slog.Logger) *EpisodeCatalog {
	if log == nil {
		log = slog.Default()
	}
	return &EpisodeCatalog{key: key, client: client, log: log}
}

func (c *EpisodeCatalog) Key() string { return c.key }
func (c *EpisodeCatalog) URL() string { return c.client.URL() }

// Snapshot lists monitored episodes with files across all monitored
// series. A series whose episode or file listing fails is skipped so one
// bad series does not lose the whole instance.
func (c *EpisodeCatalog) Snapshot(ctx context.Context) ([]upgrade.Item, error) {
	if err := c.client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	cutoffs, err := c.client.QualityProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("quality profiles: %w", err)
	}

	series, err := c.client.AllSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("series: %w", err)
	}

	var items []upgrade.Item
	for _, s := range series {
		if !s.Monitored || s.Statistics.EpisodeFileCount == 0 {
			continue
		}
		cutoff, ok := cutoffs[s.QualityProfileID]
		if !ok {
			c.log.Debug("series has unknown quality profile", "title", s.Title, "profile", s.QualityProfileID)
			continue
		}

		episodes, err := c.client.Episodes(ctx, s.ID)
		if err != nil {
			c.log.Warn("skipping series, episode listing failed", "title", s.Title, "error", err)
			continue
		}
		files, err := c.client.EpisodeFiles(ctx, s.ID)
		if err != nil {
			c.log.Warn("skipping series, file listing failed", "title", s.Title, "error", err)
			continue
		}

		byID := make(map[int64]Episode, len(episodes))
		for _, ep := range episodes {
			byID[ep.ID] = ep
		}

		for _, f := range files {
			ep, ok := byID[f.EpisodeID]
			if !ok || !ep.Monitored {
				continue
			}
			items = append(items, upgrade.Item{
				ID:        ep.ID,
				Title:     fmt.Sprintf("%s - S%02dE%02d - %s", s.Title, ep.SeasonNumber, ep.EpisodeNumber, ep.Title),
				CutoffMet: f.CustomFormatScore >= cutoff,
			})
		}
	}
	return items, nil
}

// Search enqueues an EpisodeSearch command for the given episode IDs.
func (c *EpisodeCatalog) Search(ctx context.Context, ids []int64) error {
	return c.client.TriggerSearch(ctx, "EpisodeSearch", "episodeIds", ids)
}
