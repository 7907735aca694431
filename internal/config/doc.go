// Package config manages user-level settings stored at ~/.createkit/config.yaml.
// The settings supply defaults for the answers the scaffolder asks for (author,
// email, license, template) and the preferred package manager.
package config
