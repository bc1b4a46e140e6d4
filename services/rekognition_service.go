package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"foodsnap/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type labelDetector interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionService is a cheap "is there food in this photo" gate that
// runs before the vision model.
type RekognitionService struct {
	client labelDetector
}

func NewRekognitionService(client *rekognition.Client) *RekognitionService {
	return &RekognitionService{client: client}
}

// foodLabels are Rekognition label names (lowercase) that count as food.
var foodLabels = map[string]bool{
	"food": true, "meal": true, "dish": true, "lunch": true, "dinner": true,
	"breakfast": true, "brunch": true, "snack": true, "dessert": true,
	"beverage": true, "drink": true, "alcohol": true, "beer": true,
	"wine": true, "coffee": true, "juice": true, "fruit": true,
	"vegetable": true, "produce": true, "bread": true, "pizza": true,
	"burger": true, "sandwich": true, "salad": true, "soup": true,
	"pasta": true, "noodle": true, "meat": true, "seafood": true,
	"cake": true, "sweets": true, "plate": true, "bowl": true,
}

// RecognizeLabels returns up to 10 labels detected with at least 70%
// confidence.
func (r *RekognitionService) RecognizeLabels(ctx context.Context, base64Img string) ([]string, error) {
	_, payload := utils.ParseDataURI(base64Img)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid image data: %w", err)
	}

	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(70),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, aws.ToString(l.Name))
	}
	return labels, nil
}

// LooksLikeFood reports whether any detected label is food-like.
func (r *RekognitionService) LooksLikeFood(ctx context.Context, base64Img string) (bool, []string, error) {
	labels, err := r.RecognizeLabels(ctx, base64Img)
	if err != nil {
		return false, nil, err
	}
	for _, l := range labels {
		if foodLabels[strings.ToLower(l)] {
			return true, labels, nil
		}
	}
	return false, labels, nil
}
