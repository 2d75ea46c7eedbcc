package config

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/gogpu/vkbind/rust"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	options := rust.DefaultOptions()

	assert.Equal(t, options.Library, cfg.Library)
	assert.Equal(t, options.WindowsLibrary, cfg.WindowsLibrary)
	assert.Equal(t, options.ProcAddrCommand, cfg.ProcAddrCommand)
	assert.Equal(t, options.TableName, cfg.TableName)
	assert.Equal(t, "type_", cfg.Reserved["type"])
	assert.False(t, cfg.Strict)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	var useCases = []struct {
		description string
		URL         string
		content     string
		expect      func(t *testing.T, cfg *Config)
		hasError    bool
	}{
		{
			description: "empty file keeps defaults",
			URL:         "mem://localhost/vkbind/case001/config.yaml",
			content:     "",
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "vulkan", cfg.Library)
				assert.Equal(t, "VkExtensionTable", cfg.TableName)
			},
		},
		{
			description: "scalar overrides",
			URL:         "mem://localhost/vkbind/case002/config.yaml",
			content: `library: vulkan_custom
windowsLibrary: vulkan_custom-1
tableName: ExtFns
strict: true
`,
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "vulkan_custom", cfg.Library)
				assert.Equal(t, "vulkan_custom-1", cfg.WindowsLibrary)
				assert.Equal(t, "ExtFns", cfg.TableName)
				assert.Equal(t, "vkGetInstanceProcAddr", cfg.ProcAddrCommand)
				assert.True(t, cfg.Strict)
			},
		},
		{
			description: "maps merge into defaults",
			URL:         "mem://localhost/vkbind/case003/config.yaml",
			content: `reserved:
  fn: fn_
platformTypes:
  MirConnection: c_void
  Window: u64
`,
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "type_", cfg.Reserved["type"])
				assert.Equal(t, "fn_", cfg.Reserved["fn"])
				assert.Equal(t, "c_void", cfg.PlatformTypes["MirConnection"])
				assert.Equal(t, "u64", cfg.PlatformTypes["Window"])
				assert.Equal(t, "*mut c_void", cfg.PlatformTypes["HWND"])
			},
		},
		{
			description: "keyword substitution",
			URL:         "mem://localhost/vkbind/case004/config.yaml",
			content:     "reserved:\n  type: match\n",
			hasError:    true,
		},
		{
			description: "malformed yaml",
			URL:         "mem://localhost/vkbind/case005/config.yaml",
			content:     "library: [unterminated\n",
			hasError:    true,
		},
		{
			description: "missing file",
			URL:         "mem://localhost/vkbind/case006/missing.yaml",
			hasError:    true,
		},
	}

	ctx := context.Background()
	fs := afs.New()
	for _, useCase := range useCases {
		t.Run(useCase.description, func(t *testing.T) {
			if useCase.content != "" || !useCase.hasError {
				err := fs.Upload(ctx, useCase.URL, file.DefaultFileOsMode, strings.NewReader(useCase.content))
				require.NoError(t, err)
			}
			cfg, err := Load(ctx, fs, useCase.URL)
			if useCase.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, useCase.URL, cfg.URL)
			useCase.expect(t, cfg)
		})
	}
}

func TestConfig_RustOptions(t *testing.T) {
	cfg := Default()
	cfg.TableName = "ExtFns"

	options := cfg.RustOptions(nil)
	assert.Equal(t, "ExtFns", options.TableName)
	assert.Equal(t, "vulkan-1", options.WindowsLibrary)
	assert.Equal(t, "type_", options.Reserved["type"])

	options.Reserved["fn"] = "fn_"
	_, ok := cfg.Reserved["fn"]
	assert.False(t, ok, "options must not share maps with the config")
}
