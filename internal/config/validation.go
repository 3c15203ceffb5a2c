package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"whisper-batch/internal/app/api/provider"
	apperrors "whisper-batch/internal/app/errors"
)

var validate = validator.New()

// Validate checks field constraints and the cross-field rules.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return apperrors.Wrap(apperrors.ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return apperrors.Wrap(apperrors.ErrInvalidConfig, err.Error())
	}

	if s.Server.CheckAuthorization && s.Server.AuthURL == "" && s.Server.AuthJWTSecret == "" {
		return apperrors.RequiredField("AUTH_URL or AUTH_JWT_SECRET (CHECK_AUTHORIZATION=1)")
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Settings.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("invalid Gemini API key format: too short")
		}
	}

	return nil
}

// CheckProviderCredentials fails fast when a cloud provider is selected without
// its key, either in its settings or in the environment.
func CheckProviderCredentials(providerType string, settings provider.Settings) error {
	switch providerType {
	case "openai":
		return ValidateAPIKey(settings.String("api_key", strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))), "OpenAI")
	case "gemini":
		return ValidateAPIKey(settings.String("api_key", strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))), "Gemini")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
