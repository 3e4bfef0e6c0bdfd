package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/noah-isme/horarios-api/pkg/config"
)

func tokenCmd() *cobra.Command {
	var (
		userID   string
		audience string
		ttl      time.Duration
		baseURL  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a portal token and print the login link",
		Long: `Token signs an HS256 portal token with AUTH_TOKEN_SECRET, the same way
the university portal does, and prints the /auth link a professor follows.
A zero --ttl omits the exp claim.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("audience") {
				audience = cfg.Auth.Audience
			}

			token, err := mintPortalToken(cfg.Auth.TokenSecret, userID, audience, ttl, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintln(out, loginLink(baseURL, "token", token))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Professor id (cedula)")
	cmd.Flags().StringVar(&audience, "audience", "", "aud claim, defaults to AUTH_AUDIENCE")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*time.Minute, "Token lifetime")
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:5000", "Public base URL of the API")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func mintPortalToken(secret, userID, audience string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is empty")
	}
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("user id is required")
	}

	claims := jwt.MapClaims{"user_id": userID}
	if audience != "" {
		claims["aud"] = audience
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func loginLink(baseURL, param, value string) string {
	return strings.TrimRight(baseURL, "/") + "/auth?" + url.Values{param: {value}}.Encode()
}
