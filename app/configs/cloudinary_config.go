package configs

import (
	"fmt"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
)

func NewCloudinary(env ENV) (*cloudinary.Cloudinary, error) {
	if env.CloudinaryCloudName == "" || env.CloudinaryAPIKey == "" || env.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are not configured")
	}

	cld, err := cloudinary.NewFromParams(env.CloudinaryCloudName, env.CloudinaryAPIKey, env.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	log.Println("✅ Cloudinary client initialized.")
	return cld, nil
}
