package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"foodsnap/models"
	"foodsnap/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

type snsAPI interface {
	CreatePlatformEndpoint(ctx context.Context, in *awssns.CreatePlatformEndpointInput, optFns ...func(*awssns.Options)) (*awssns.CreatePlatformEndpointOutput, error)
	Publish(ctx context.Context, in *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

type PushService struct {
	devices        store.DeviceRepository
	sns            snsAPI
	fcmPlatformArn string
	log            *zap.Logger
	now            func() time.Time
}

// NewPushService wires SNS delivery. A nil client leaves registration
// failing with ConfigurationError and pushes as no-ops.
func NewPushService(devices store.DeviceRepository, client *awssns.Client, fcmPlatformArn string, log *zap.Logger) *PushService {
	p := &PushService{devices: devices, fcmPlatformArn: fcmPlatformArn, log: log, now: time.Now}
	if client != nil {
		p.sns = client
	}
	return p
}

type RegisterDeviceReq struct {
	Platform string `json:"platform" binding:"required"` // "android" | "ios"
	Token    string `json:"token" binding:"required"`
	Language string `json:"language"`
}

func tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android", "ios":
		if p.fcmPlatformArn == "" {
			return "", ConfigurationError("SNS_FCM_ARN not set")
		}
		return p.fcmPlatformArn, nil
	default:
		return "", InvalidInputError("unknown platform")
	}
}

func (p *PushService) RegisterDevice(ctx context.Context, userID string, req RegisterDeviceReq) (*models.UserDevice, error) {
	if p.sns == nil {
		return nil, ConfigurationError("push notifications not configured")
	}
	appArn, err := p.platformArn(req.Platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(req.Token),
	})
	if err != nil {
		return nil, fmt.Errorf("create platform endpoint: %w", err)
	}

	lang := req.Language
	if lang == "" {
		lang = "en"
	}
	now := p.now().UTC()
	dev := &models.UserDevice{
		UserID:      userID,
		Platform:    strings.ToLower(req.Platform),
		TokenHash:   tokenHash(req.Token),
		EndpointARN: aws.ToString(out.EndpointArn),
		Language:    lang,
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.devices.UpsertDevice(ctx, dev); err != nil {
		return nil, fmt.Errorf("save device: %w", err)
	}
	return dev, nil
}

func (p *PushService) SetEnabled(ctx context.Context, userID string, enabled bool) error {
	return p.devices.SetDevicesEnabled(ctx, userID, enabled)
}

// PushToUser publishes to every enabled device of the user and returns
// how many publishes succeeded. Per-device failures are only logged.
func (p *PushService) PushToUser(ctx context.Context, userID, title, body string, data map[string]string) (int, error) {
	if p.sns == nil {
		return 0, nil
	}
	devices, err := p.devices.ListDevices(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list devices: %w", err)
	}

	gcm, err := json.Marshal(map[string]any{
		"notification": map[string]string{"title": title, "body": body},
		"data":         data,
	})
	if err != nil {
		return 0, err
	}
	raw, err := json.Marshal(map[string]string{"default": body, "GCM": string(gcm)})
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, d := range devices {
		if !d.Enabled {
			continue
		}
		_, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err != nil {
			p.log.Warn("push failed", zap.String("user_id", userID), zap.String("endpoint", d.EndpointARN), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
