package reddit

import (
	"fmt"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
)

// NewSource creates the PostSource selected by settings.Mode.
func NewSource(settings domain.RedditSettings) (driven.PostSource, error) {
	switch settings.Mode {
	case domain.RedditModeAPI:
		client, err := NewAPIClient(APIConfig{
			ClientID:          settings.ClientID,
			ClientSecret:      settings.ClientSecret.Value(),
			Username:          settings.Username,
			Password:          settings.Password.Value(),
			UserAgent:         settings.UserAgent,
			RequestsPerMinute: settings.RequestsPerMinute,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case domain.RedditModeApp:
		client, err := NewAppClient(AppConfig{
			JSONConfig: JSONConfig{
				UserAgent:         settings.UserAgent,
				RequestsPerMinute: settings.RequestsPerMinute,
			},
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret.Value(),
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case domain.RedditModePublic, "":
		return NewPublicClient(JSONConfig{
			UserAgent:         settings.UserAgent,
			RequestsPerMinute: settings.RequestsPerMinute,
		}), nil
	case domain.RedditModeMock:
		return NewMockSource(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, settings.Mode)
	}
}
