package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/scy"
	"github.com/viant/toolbox"
)

// resolveAPIKey returns the plain key unless a secret URL is configured, in
// which case the key is loaded through scy.  Structured secrets expose the
// key under "api_key".
func resolveAPIKey(ctx context.Context, plain, secretURL string) (string, error) {
	if secretURL == "" {
		return plain, nil
	}
	resource := scy.NewResource(nil, secretURL, "")
	secret, err := scy.New().Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("failed to load secret from %s: %w", secretURL, err)
	}
	if !secret.IsPlain && secret.Target != nil {
		aMap := map[string]interface{}{}
		if err := toolbox.DefaultConverter.AssignConverted(&aMap, secret.Target); err != nil {
			return "", fmt.Errorf("failed to convert secret data: %w", err)
		}
		aMap = toolbox.DeleteEmptyKeys(aMap)
		if key, ok := aMap["api_key"].(string); ok && key != "" {
			return key, nil
		}
		return "", fmt.Errorf("secret at %s has no api_key entry", secretURL)
	}
	return strings.TrimSpace(secret.String()), nil
}
