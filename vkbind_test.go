package vkbind

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/vkbind/vkxml"
)

func loadTestdata(t *testing.T) []byte {
	t.Helper()
	source, err := os.ReadFile("testdata/registry.xml")
	require.NoError(t, err)
	return source
}

func generate(t *testing.T, source []byte, opts Options) string {
	t.Helper()
	code, err := Generate(source, opts)
	require.NoError(t, err)
	return code
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

const missingCommandRegistry = `<registry>
    <types>
        <type category="basetype">typedef <type>uint32_t</type> <name>VkFlags</name>;</type>
    </types>
    <feature api="vulkan" name="VK_VERSION_1_0" number="1.0">
        <require>
            <type name="VkFlags"/>
            <command name="vkMissing"/>
        </require>
    </feature>
</registry>`

func TestGenerate_Deterministic(t *testing.T) {
	source := loadTestdata(t)

	first := generate(t, source, DefaultOptions())
	second := generate(t, source, DefaultOptions())
	assert.Equal(t, first, second)
}

func TestGenerate_CoreCommands(t *testing.T) {
	code := generate(t, loadTestdata(t), DefaultOptions())

	for _, name := range []string{
		"vkCreateInstance",
		"vkDestroyInstance",
		"vkEnumeratePhysicalDevices",
		"vkGetPhysicalDeviceProperties",
		"vkGetInstanceProcAddr",
		"vkEnumerateInstanceVersion",
		"vkGetPhysicalDeviceProperties2",
	} {
		assert.Contains(t, code, "    pub fn "+name+"(", name)
	}
	assert.Contains(t, code, "    pub fn vkEnumerateInstanceVersion(pApiVersion: *mut u32) -> VkResult;\n")
}

func TestGenerate_NoLeakage(t *testing.T) {
	code := generate(t, loadTestdata(t), DefaultOptions())

	for _, name := range []string{
		"vkLeakedCommandKHR",
		"VkLeakedTypeKHR",
		"vkDisabledThingEXT",
		"VK_ERROR_DISABLED_THING_EXT",
		"VK_EXT_disabled_thing",
		"vkOnlyInVulkanSC",
		"VK_ACCESS_2_SAFETY_CRITICAL_BIT",
	} {
		assert.NotContains(t, code, name)
	}
}

func TestGenerate_ExtensionValues(t *testing.T) {
	code := generate(t, loadTestdata(t), DefaultOptions())

	assert.Contains(t, code, lines(
		"    // VK_KHR_surface",
		`    #[cfg(feature = "VK_KHR_surface")]`,
		"    VK_ERROR_SURFACE_LOST_KHR = -1000000000,",
	))
	assert.Contains(t, code, lines(
		"    // VK_KHR_xlib_surface",
		`    #[cfg(feature = "VK_KHR_xlib_surface")]`,
		"    VK_STRUCTURE_TYPE_XLIB_SURFACE_CREATE_INFO_KHR = 1000004000,",
	))
	assert.Contains(t, code, lines(
		"    VK_STRUCTURE_TYPE_INSTANCE_CREATE_INFO = 1,",
		"    VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_PROPERTIES_2 = 1000059001,",
	))
	assert.Contains(t, code, "        const VK_ACCESS_2_DESCRIPTOR_HINT_BIT_EXT = 0x10000000000;\n")
}

func TestGenerate_Structs(t *testing.T) {
	code := generate(t, loadTestdata(t), DefaultOptions())

	assert.Contains(t, code, lines(
		`#[cfg(feature = "VK_KHR_xlib_surface")]`,
		"#[repr(C)]",
	))
	assert.Contains(t, code, "pub struct VkXlibSurfaceCreateInfoKHR {\n")
	assert.Contains(t, code, "    pub dpy: *mut Display,\n")
	assert.Contains(t, code, "    pub type_: VkDescriptorType,\n")
	assert.Contains(t, code, "\npub type VkPhysicalDeviceProperties2KHR = VkPhysicalDeviceProperties2;\n")
	assert.NotContains(t, code, lines(
		`#[cfg(feature = "VK_KHR_get_physical_device_properties2")]`,
		"pub type VkPhysicalDeviceProperties2KHR = VkPhysicalDeviceProperties2;",
	))
}

func TestGenerate_ExtensionTable(t *testing.T) {
	code := generate(t, loadTestdata(t), DefaultOptions())

	assert.Contains(t, code, "pub struct VkExtensionTable {\n")
	assert.Contains(t, code, lines(
		`    #[cfg(feature = "VK_KHR_get_physical_device_properties2")]`,
		`    pub GetPhysicalDeviceProperties2KHR: Option<unsafe extern "system" fn(physicalDevice: VkPhysicalDevice, pProperties: *mut VkPhysicalDeviceProperties2)>,`,
	))
	assert.Contains(t, code, `b"vkCreateXlibSurfaceKHR\0".as_ptr() as *const c_char`)
	assert.NotContains(t, code, "    pub fn vkCreateXlibSurfaceKHR(")
}

func TestGenerate_CustomRustOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Rust.TableName = "InstanceFns"
	opts.Rust.Library = "vk_loader"

	code := generate(t, loadTestdata(t), opts)
	assert.Contains(t, code, "pub struct InstanceFns {\n")
	assert.Contains(t, code, `#[cfg_attr(not(windows), link(name = "vk_loader"))]`)
}

func TestGenerate_ParseError(t *testing.T) {
	_, err := Generate([]byte("<registry>\n<bogus/>\n</registry>"), DefaultOptions())
	require.Error(t, err)

	var se *vkxml.SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Line)
	assert.Contains(t, err.Error(), "parse error")
}

func TestGenerate_UnresolvedWarns(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	code := generate(t, []byte(missingCommandRegistry), opts)
	assert.NotContains(t, code, "vkMissing")
	assert.Contains(t, buf.String(), "unresolved requirement")
	assert.Contains(t, buf.String(), "name=vkMissing")
}

func TestGenerate_Strict(t *testing.T) {
	opts := DefaultOptions()
	opts.Strict = true

	_, err := Generate([]byte(missingCommandRegistry), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve error")
	assert.Contains(t, err.Error(), "command vkMissing required by VK_VERSION_1_0")
}

func TestParseAndResolve(t *testing.T) {
	reg, err := Parse(loadTestdata(t), nil)
	require.NoError(t, err)

	res, err := Resolve(reg, DefaultOptions())
	require.NoError(t, err)

	group, ok := res.Group("VkStructureType")
	require.True(t, ok)
	entry, ok := group.Entry("VK_STRUCTURE_TYPE_XLIB_SURFACE_CREATE_INFO_KHR")
	require.True(t, ok)
	assert.Equal(t, int64(1000004000), entry.Value)
	assert.Equal(t, []string{"VK_KHR_xlib_surface"}, entry.Gates)

	code, err := Emit(res, DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}
