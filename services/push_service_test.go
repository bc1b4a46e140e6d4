package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"foodsnap/models"
	"foodsnap/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	mu        sync.Mutex
	published []*awssns.PublishInput
	failArn   string
}

func (f *fakeSNS) CreatePlatformEndpoint(_ context.Context, in *awssns.CreatePlatformEndpointInput, _ ...func(*awssns.Options)) (*awssns.CreatePlatformEndpointOutput, error) {
	return &awssns.CreatePlatformEndpointOutput{EndpointArn: aws.String("arn:endpoint/" + aws.ToString(in.Token))}, nil
}

func (f *fakeSNS) Publish(_ context.Context, in *awssns.PublishInput, _ ...func(*awssns.Options)) (*awssns.PublishOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if aws.ToString(in.TargetArn) == f.failArn {
		return nil, errors.New("endpoint disabled")
	}
	f.published = append(f.published, in)
	return &awssns.PublishOutput{}, nil
}

func newPushService(st store.Store, sns *fakeSNS) *PushService {
	p := NewPushService(st, nil, "arn:app/fcm", nopLogger())
	p.sns = sns
	p.now = clock
	return p
}

func TestPushService_RegisterDevice(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	p := newPushService(st, &fakeSNS{})

	dev, err := p.RegisterDevice(ctx, "u1", RegisterDeviceReq{Platform: "Android", Token: "tok-1", Language: "es"})
	require.NoError(t, err)
	assert.Equal(t, "android", dev.Platform)
	assert.Equal(t, "arn:endpoint/tok-1", dev.EndpointARN)
	assert.Equal(t, tokenHash("tok-1"), dev.TokenHash)
	assert.True(t, dev.Enabled)

	// same token again updates in place
	_, err = p.RegisterDevice(ctx, "u1", RegisterDeviceReq{Platform: "ios", Token: "tok-1"})
	require.NoError(t, err)
	devices, err := st.ListDevices(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "ios", devices[0].Platform)
	assert.Equal(t, "en", devices[0].Language)
}

func TestPushService_RegisterDeviceErrors(t *testing.T) {
	ctx := context.Background()

	unconfigured := NewPushService(store.NewMemory(), nil, "arn:app/fcm", nopLogger())
	_, err := unconfigured.RegisterDevice(ctx, "u1", RegisterDeviceReq{Platform: "android", Token: "t"})
	kind, _ := KindOf(err)
	assert.Equal(t, KindConfiguration, kind)

	_, err = newPushService(store.NewMemory(), &fakeSNS{}).RegisterDevice(ctx, "u1", RegisterDeviceReq{Platform: "blackberry", Token: "t"})
	kind, _ = KindOf(err)
	assert.Equal(t, KindInvalidInput, kind)

	noArn := newPushService(store.NewMemory(), &fakeSNS{})
	noArn.fcmPlatformArn = ""
	_, err = noArn.RegisterDevice(ctx, "u1", RegisterDeviceReq{Platform: "ios", Token: "t"})
	kind, _ = KindOf(err)
	assert.Equal(t, KindConfiguration, kind)
}

func TestPushService_PushToUser(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sns := &fakeSNS{failArn: "arn:endpoint/broken"}
	p := newPushService(st, sns)

	for _, tok := range []string{"a", "b", "broken"} {
		_, err := p.RegisterDevice(ctx, "u1", RegisterDeviceReq{Platform: "android", Token: tok})
		require.NoError(t, err)
	}

	sent, err := p.PushToUser(ctx, "u1", "FoodSnap", "Lunch time!", map[string]string{"mealType": "lunch"})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, sns.published, 2)

	in := sns.published[0]
	assert.Equal(t, "json", aws.ToString(in.MessageStructure))
	var envelope map[string]string
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(in.Message)), &envelope))
	assert.Equal(t, "Lunch time!", envelope["default"])
	var gcm struct {
		Notification map[string]string `json:"notification"`
		Data         map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(envelope["GCM"]), &gcm))
	assert.Equal(t, "FoodSnap", gcm.Notification["title"])
	assert.Equal(t, "lunch", gcm.Data["mealType"])

	require.NoError(t, p.SetEnabled(ctx, "u1", false))
	sent, err = p.PushToUser(ctx, "u1", "FoodSnap", "again", nil)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestNotificationScheduler_RunOnce(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "maintain")
	sns := &fakeSNS{}
	push := newPushService(st, sns)

	_, err := push.RegisterDevice(ctx, "u1", RegisterDeviceReq{Platform: "android", Token: "u1-phone", Language: "es"})
	require.NoError(t, err)
	_, err = push.RegisterDevice(ctx, "u2", RegisterDeviceReq{Platform: "ios", Token: "u2-phone"})
	require.NoError(t, err)
	require.NoError(t, push.SetEnabled(ctx, "u2", false))

	sched := NewNotificationScheduler(newNotificationService(st, &fakeChat{}), push, st, nopLogger())
	sent := sched.RunOnce(ctx, models.MealTypeDinner)
	assert.Equal(t, 1, sent)

	require.Len(t, sns.published, 1)
	assert.Equal(t, "arn:endpoint/u1-phone", aws.ToString(sns.published[0].TargetArn))
	assert.Contains(t, aws.ToString(sns.published[0].Message), "Hora de cenar")
}

func TestNotificationScheduler_StartRejectsBadSpec(t *testing.T) {
	st := store.NewMemory()
	sched := NewNotificationScheduler(newNotificationService(st, &fakeChat{}), newPushService(st, &fakeSNS{}), st, nopLogger())
	assert.Error(t, sched.Start("not a spec", "0 19 * * *"))

	ok := NewNotificationScheduler(newNotificationService(st, &fakeChat{}), newPushService(st, &fakeSNS{}), st, nopLogger())
	require.NoError(t, ok.Start("0 12 * * *", "0 19 * * *"))
	ok.Stop()
}
