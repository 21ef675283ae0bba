package config

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

var (
	KMSKeyID  string
	KMSClient *kms.Client
)

// InitKMS sets up the AWS KMS client used to decrypt the APNs signing key.
// Only needed when the key is provided as APNS_KEY_CIPHERTEXT.
func InitKMS() error {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		slog.Error("Failed to load AWS SDK config", "error", err)
		return fmt.Errorf("unable to load AWS SDK config: %v", err)
	}

	KMSClient = kms.NewFromConfig(cfg)

	KMSKeyID = os.Getenv("AWS_KMS_KEY_ID")
	if KMSKeyID == "" {
		slog.Error("Missing required environment variable", "variable", "AWS_KMS_KEY_ID")
		return fmt.Errorf("AWS_KMS_KEY_ID environment variable is required")
	}

	slog.Info("Successfully initialized AWS KMS client")
	return nil
}

// EncryptSigningKey envelope-encrypts PEM key material for storage in the
// environment. Used by provisioning tooling, not by the running service.
func EncryptSigningKey(keyPEM []byte) (string, error) {
	if KMSClient == nil {
		return "", fmt.Errorf("KMS client not initialized")
	}

	input := &kms.EncryptInput{
		KeyId:     aws.String(KMSKeyID),
		Plaintext: keyPEM,
	}

	result, err := KMSClient.Encrypt(context.TODO(), input)
	if err != nil {
		slog.Error("Failed to encrypt signing key", "error", err)
		return "", fmt.Errorf("failed to encrypt signing key: %v", err)
	}

	return base64.StdEncoding.EncodeToString(result.CiphertextBlob), nil
}

// DecryptSigningKey recovers the PEM signing key from its base64 KMS
// ciphertext.
func DecryptSigningKey(ciphertextB64 string) ([]byte, error) {
	if KMSClient == nil {
		if err := InitKMS(); err != nil {
			return nil, err
		}
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		slog.Error("Failed to decode encrypted signing key", "error", err)
		return nil, fmt.Errorf("failed to decode encrypted signing key: %v", err)
	}

	input := &kms.DecryptInput{
		CiphertextBlob: ciphertext,
	}

	result, err := KMSClient.Decrypt(context.TODO(), input)
	if err != nil {
		slog.Error("Failed to decrypt signing key", "error", err)
		return nil, fmt.Errorf("failed to decrypt signing key: %v", err)
	}

	return result.Plaintext, nil
}
