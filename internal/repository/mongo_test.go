package repository

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"dryfruto/storefront/internal/domain"
)

func TestSettingsUpdate(t *testing.T) {
	defaults := domain.SiteSettings{"businessName": "DryFruto", "slogan": "Live With Health"}

	tests := []struct {
		name     string
		defaults domain.SiteSettings
		partial  domain.SiteSettings
		want     bson.D
	}{
		{
			name:     "partial key overrides default",
			defaults: defaults,
			partial:  domain.SiteSettings{"businessName": "Test"},
			want: bson.D{
				{Key: "$set", Value: bson.M{"businessName": "Test"}},
				{Key: "$setOnInsert", Value: bson.M{"slogan": "Live With Health"}},
			},
		},
		{
			name:     "empty partial only fills defaults",
			defaults: defaults,
			partial:  domain.SiteSettings{},
			want: bson.D{
				{Key: "$setOnInsert", Value: bson.M{"businessName": "DryFruto", "slogan": "Live With Health"}},
			},
		},
		{
			name:     "unknown key is kept",
			defaults: defaults,
			partial:  domain.SiteSettings{"whatsapp": "123"},
			want: bson.D{
				{Key: "$set", Value: bson.M{"whatsapp": "123"}},
				{Key: "$setOnInsert", Value: bson.M{"businessName": "DryFruto", "slogan": "Live With Health"}},
			},
		},
		{
			name:     "partial covers every default",
			defaults: defaults,
			partial:  domain.SiteSettings{"businessName": "A", "slogan": "B"},
			want: bson.D{
				{Key: "$set", Value: bson.M{"businessName": "A", "slogan": "B"}},
			},
		},
		{
			name:     "nothing to write",
			defaults: domain.SiteSettings{},
			partial:  domain.SiteSettings{},
			want:     bson.D{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := settingsUpdate(tt.defaults, tt.partial)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("unexpected update\n got: %v\nwant: %v", got, tt.want)
			}
		})
	}
}
