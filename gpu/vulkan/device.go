package vulkan

import (
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"vulkan-triangle/gpu"
	"vulkan-triangle/queues"
)

var (
	// ErrNoAdapter is returned when the Vulkan instance reports no physical
	// devices.
	ErrNoAdapter = errors.New("failed to find GPUs with Vulkan support")

	// ErrMissingExtension is returned when the chosen physical device lacks
	// an extension the renderer needs.
	ErrMissingExtension = errors.New("required device extension is not supported")

	// ErrUnknownHandle is returned when a gpu handle does not name a live
	// object of this device.
	ErrUnknownHandle = errors.New("unknown handle")
)

const validationLayer = "VK_LAYER_KHRONOS_validation\x00"

var deviceExtensions = []string{
	vk.KhrSwapchainExtensionName + "\x00",
}

// SurfaceProvider is the window side of the device. It knows how to reach the
// Vulkan loader and how to make a presentable surface out of its window.
type SurfaceProvider interface {
	GetInstanceProcAddress() unsafe.Pointer
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
}

// Options tune Open.
type Options struct {
	// AppName is reported to the driver in the application info.
	AppName string

	// Debug enables the Khronos validation layer when it is installed.
	Debug bool
}

// Device is a gpu.Device backed by a Vulkan logical device.
type Device struct {
	instance    vk.Instance
	surface     vk.Surface
	adapter     vk.PhysicalDevice
	device      vk.Device
	queue       vk.Queue
	queueFamily uint32

	layers []string

	// colorSpaces remembers the color space the surface pairs with every
	// format it offered.
	colorSpaces map[gpu.Format]vk.ColorSpace
	transform   vk.SurfaceTransformFlagBits

	semaphores     table[gpu.Semaphore, vk.Semaphore]
	fences         table[gpu.Fence, vk.Fence]
	pools          table[gpu.CommandPool, *commandPool]
	commandBuffers table[gpu.CommandBuffer, *commandBuffer]
	shaderModules  table[gpu.ShaderModule, vk.ShaderModule]
	renderPasses   table[gpu.RenderPass, vk.RenderPass]
	layouts        table[gpu.PipelineLayout, vk.PipelineLayout]
	pipelines      table[gpu.Pipeline, vk.Pipeline]
	swapchains     table[gpu.Swapchain, *swapchain]
	images         table[gpu.Image, vk.Image]
	imageViews     table[gpu.ImageView, vk.ImageView]
	framebuffers   table[gpu.Framebuffer, vk.Framebuffer]
}

var _ gpu.Device = (*Device)(nil)

// Open loads Vulkan through provider, creates an instance and a surface for
// the provider's window, picks the first physical device and opens a logical
// device with one queue which can both render and present.
func Open(provider SurfaceProvider, opts Options) (*Device, error) {
	vk.SetGetInstanceProcAddr(provider.GetInstanceProcAddress())

	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to init Vulkan Go")
	}

	d := &Device{
		instance:    vk.Instance(vk.NullHandle),
		surface:     vk.NullSurface,
		adapter:     vk.PhysicalDevice(vk.NullHandle),
		device:      vk.Device(vk.NullHandle),
		colorSpaces: make(map[gpu.Format]vk.ColorSpace),
	}

	if err := d.open(provider, opts); err != nil {
		d.Close()
		return nil, err
	}

	return d, nil
}

func (d *Device) open(provider SurfaceProvider, opts Options) error {
	if err := d.createInstance(provider.RequiredInstanceExtensions(), opts); err != nil {
		return errors.Wrap(err, "createInstance")
	}

	surface, err := provider.CreateSurface(d.instance)
	if err != nil {
		return errors.Wrap(err, "createSurface")
	}
	d.surface = surface

	if err := d.pickPhysicalDevice(); err != nil {
		return errors.Wrap(err, "pickPhysicalDevice")
	}

	if err := d.createLogicalDevice(); err != nil {
		return errors.Wrap(err, "createLogicalDevice")
	}

	return nil
}

// Close destroys the logical device, the surface and the instance. Every
// object created through the device must have been destroyed before.
func (d *Device) Close() {
	if leaked := d.liveObjects(); leaked > 0 {
		gpu.Logger().Warn("closing device with live objects", "objects", leaked)
	}

	if d.device != vk.Device(vk.NullHandle) {
		vk.DestroyDevice(d.device, nil)
		d.device = vk.Device(vk.NullHandle)
	}
	if d.surface != vk.NullSurface {
		vk.DestroySurface(d.instance, d.surface, nil)
		d.surface = vk.NullSurface
	}
	if d.instance != vk.Instance(vk.NullHandle) {
		vk.DestroyInstance(d.instance, nil)
		d.instance = vk.Instance(vk.NullHandle)
	}
}

func (d *Device) liveObjects() int {
	return d.semaphores.len() + d.fences.len() + d.pools.len() +
		d.shaderModules.len() + d.renderPasses.len() + d.layouts.len() +
		d.pipelines.len() + d.swapchains.len() + d.imageViews.len() +
		d.framebuffers.len()
}

func (d *Device) createInstance(extensions []string, opts Options) error {
	if opts.Debug {
		if checkValidationSupport() {
			d.layers = []string{validationLayer}
		} else {
			gpu.Logger().Warn("validation layers requested but not available")
		}
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   cString(opts.AppName),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        "No Engine\x00",
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.ApiVersion10,
	}

	extensions = cStrings(extensions)
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(d.layers)),
		PpEnabledLayerNames:     d.layers,
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance)); err != nil {
		return errors.Wrap(err, "failed to create Vulkan instance")
	}
	d.instance = instance

	if err := vk.InitInstance(instance); err != nil {
		return errors.Wrap(err, "loading instance functions")
	}

	return nil
}

func (d *Device) pickPhysicalDevice() error {
	var deviceCount uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(d.instance, &deviceCount, nil))
	if err != nil {
		return errors.Wrap(err, "failed to get the number of physical devices")
	}
	if deviceCount == 0 {
		return ErrNoAdapter
	}

	devices := make([]vk.PhysicalDevice, deviceCount)
	err = vk.Error(vk.EnumeratePhysicalDevices(d.instance, &deviceCount, devices))
	if err != nil {
		return errors.Wrap(err, "failed to enumerate the physical devices")
	}

	adapter := devices[0]

	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(adapter, &properties)
	properties.Deref()
	gpu.Logger().Info("using adapter",
		"name", vk.ToString(properties.DeviceName[:]),
		"available", deviceCount,
	)

	if missing := missingDeviceExtensions(adapter); len(missing) > 0 {
		return errors.Wrapf(ErrMissingExtension, "%s", strings.Join(missing, ", "))
	}

	d.adapter = adapter
	return nil
}

func (d *Device) createLogicalDevice() error {
	family, err := queues.Select(d.queueFamilies())
	if err != nil {
		return err
	}

	createInfo := vk.DeviceCreateInfo{
		SType: vk.StructureTypeDeviceCreateInfo,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		QueueCreateInfoCount: 1,

		EnabledExtensionCount:   uint32(len(deviceExtensions)),
		PpEnabledExtensionNames: deviceExtensions,
		EnabledLayerCount:       uint32(len(d.layers)),
		PpEnabledLayerNames:     d.layers,
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(d.adapter, &createInfo, nil, &device)); err != nil {
		return errors.Wrap(err, "failed to create logical device")
	}
	d.device = device
	d.queueFamily = family

	var queue vk.Queue
	vk.GetDeviceQueue(d.device, family, 0, &queue)
	d.queue = queue

	gpu.Logger().Debug("logical device ready", "queue family", family)
	return nil
}

// queueFamilies lists what every queue family of the chosen adapter can do
// with the window surface.
func (d *Device) queueFamilies() []queues.Family {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(d.adapter, &count, nil)

	properties := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(d.adapter, &count, properties)

	families := make([]queues.Family, 0, count)
	for i, family := range properties {
		family.Deref()

		var hasPresent vk.Bool32
		err := vk.Error(
			vk.GetPhysicalDeviceSurfaceSupport(d.adapter, uint32(i), d.surface, &hasPresent),
		)
		if err != nil {
			gpu.Logger().Warn("querying surface support", "family", i, "error", err)
		}

		families = append(families, queues.Family{
			Index:    uint32(i),
			Graphics: family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0,
			Present:  err == nil && hasPresent.B(),
		})
	}

	return families
}

// missingDeviceExtensions returns the required extensions the adapter does
// not support.
func missingDeviceExtensions(adapter vk.PhysicalDevice) []string {
	var count uint32
	res := vk.EnumerateDeviceExtensionProperties(adapter, "", &count, nil)
	if err := vk.Error(res); err != nil {
		gpu.Logger().Warn("enumerating device extension properties count", "error", err)
		return trimCStrings(deviceExtensions)
	}

	available := make([]vk.ExtensionProperties, count)
	res = vk.EnumerateDeviceExtensionProperties(adapter, "", &count, available)
	if err := vk.Error(res); err != nil {
		gpu.Logger().Warn("getting device extension properties", "error", err)
		return trimCStrings(deviceExtensions)
	}

	required := make(map[string]struct{})
	for _, name := range trimCStrings(deviceExtensions) {
		required[name] = struct{}{}
	}

	for _, extension := range available {
		extension.Deref()
		delete(required, vk.ToString(extension.ExtensionName[:]))
	}

	missing := make([]string, 0, len(required))
	for name := range required {
		missing = append(missing, name)
	}
	return missing
}

func checkValidationSupport() bool {
	var count uint32
	if vk.EnumerateInstanceLayerProperties(&count, nil) != vk.Success {
		return false
	}

	availableLayers := make([]vk.LayerProperties, count)
	if vk.EnumerateInstanceLayerProperties(&count, availableLayers) != vk.Success {
		return false
	}

	for _, layer := range availableLayers {
		layer.Deref()
		if cString(vk.ToString(layer.LayerName[:])) == validationLayer {
			return true
		}
	}

	return false
}

// cString terminates s with a NUL byte unless it already is.
func cString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func cStrings(names []string) []string {
	terminated := make([]string, 0, len(names))
	for _, name := range names {
		terminated = append(terminated, cString(name))
	}
	return terminated
}

func trimCStrings(names []string) []string {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		trimmed = append(trimmed, strings.TrimSuffix(name, "\x00"))
	}
	return trimmed
}
