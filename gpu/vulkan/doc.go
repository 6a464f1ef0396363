// Package vulkan implements gpu.Device on top of the Vulkan API.
//
// A Device owns the Vulkan instance, the window surface, the chosen physical
// device and a logical device with a single queue used both for graphics work
// and for presentation. Vulkan objects created through the Device are handed
// out as opaque gpu handles and looked up again in per-kind tables.
package vulkan
