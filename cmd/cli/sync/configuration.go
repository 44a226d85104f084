package sync

import "strings"

const (
	configurationCloneLinkLabelKeyConstant  = "clone_link_label"
	configurationPageSizeKeyConstant        = "page_size"
	configurationRemoteRefPrefixKeyConstant = "remote_ref_prefix"

	defaultCloneLinkLabelConstant  = "ssh"
	defaultPageSizeConstant        = 1000
	defaultRemoteRefPrefixConstant = "origin/"

	configurationKeySeparatorConstant = "."
)

// CommandConfiguration describes configuration values for the sync command.
type CommandConfiguration struct {
	CloneLinkLabel  string `mapstructure:"clone_link_label"`
	PageSize        int    `mapstructure:"page_size"`
	RemoteRefPrefix string `mapstructure:"remote_ref_prefix"`
}

// DefaultCommandConfiguration returns baseline configuration values for the sync command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		CloneLinkLabel:  defaultCloneLinkLabelConstant,
		PageSize:        defaultPageSizeConstant,
		RemoteRefPrefix: defaultRemoteRefPrefixConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the sync command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationCloneLinkLabelKeyConstant:  defaults.CloneLinkLabel,
		rootKey + configurationKeySeparatorConstant + configurationPageSizeKeyConstant:        defaults.PageSize,
		rootKey + configurationKeySeparatorConstant + configurationRemoteRefPrefixKeyConstant: defaults.RemoteRefPrefix,
	}
}

// sanitize normalizes sync configuration values, falling back to defaults for blank entries.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.CloneLinkLabel = strings.TrimSpace(configuration.CloneLinkLabel)
	if len(sanitized.CloneLinkLabel) == 0 {
		sanitized.CloneLinkLabel = defaultCloneLinkLabelConstant
	}
	if sanitized.PageSize <= 0 {
		sanitized.PageSize = defaultPageSizeConstant
	}
	sanitized.RemoteRefPrefix = strings.TrimSpace(configuration.RemoteRefPrefix)
	if len(sanitized.RemoteRefPrefix) == 0 {
		sanitized.RemoteRefPrefix = defaultRemoteRefPrefixConstant
	}
	return sanitized
}
