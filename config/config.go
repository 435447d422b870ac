package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS  = "" // e.g. "example.com,example2.com"
	MYSQL_DSN    = "" // MySQL will be used if this is set
	SQLITE_FILE  = "" // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS = "0.0.0.0:8080"
	TMP_DIR      = "/tmp" // Used for temporary local copies of S3 objects (model weights, etc)
	DEBUG_MODE   = true

	// Face recognition
	FACE_MODELS_DIR        = "models"            // dlib weight files for the deep backend
	FACE_CASCADE_FILE      = "models/facefinder" // pigo binary cascade
	FACE_PREFERRED_BACKEND = "dlib-resnet-v1"    // backend used for new enrollments
	FACE_DEEP_THRESHOLD    = 0.6                 // euclidean distance on 128-d dlib descriptors
	FACE_CLASSIC_THRESHOLD = 0.6                 // cosine distance on histogram vectors
	FACE_MOMENTS_THRESHOLD = 0.85                // euclidean distance on moment vectors, low trust
	FACE_STRICT_SINGLE     = false               // reject probes with more than one detected face
	FACE_MIN_REGION        = 40                  // minimum face size in pixels accepted by the locator

	// Illustration generation
	ILLUSTRATION_API_URL = "https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-2"
	ILLUSTRATION_API_KEY = ""
	ILLUSTRATION_ENABLED = true

	DEFAULT_BUCKET_DIR = "" // Used for creating initial bucket
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("FACE_MODELS_DIR", &FACE_MODELS_DIR)
	readEnvString("FACE_CASCADE_FILE", &FACE_CASCADE_FILE)
	readEnvString("FACE_PREFERRED_BACKEND", &FACE_PREFERRED_BACKEND)
	readEnvFloat("FACE_DEEP_THRESHOLD", &FACE_DEEP_THRESHOLD)
	readEnvFloat("FACE_CLASSIC_THRESHOLD", &FACE_CLASSIC_THRESHOLD)
	readEnvFloat("FACE_MOMENTS_THRESHOLD", &FACE_MOMENTS_THRESHOLD)
	readEnvBool("FACE_STRICT_SINGLE", &FACE_STRICT_SINGLE)
	readEnvInt("FACE_MIN_REGION", &FACE_MIN_REGION)
	readEnvString("ILLUSTRATION_API_URL", &ILLUSTRATION_API_URL)
	readEnvString("ILLUSTRATION_API_KEY", &ILLUSTRATION_API_KEY)
	readEnvBool("ILLUSTRATION_ENABLED", &ILLUSTRATION_ENABLED)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
