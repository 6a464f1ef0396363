// Package frame builds the fixed triangle pipeline on top of a gpu.Device and
// drives the per-frame acquire, record, submit and present protocol until the
// window asks to quit.
//
// A Renderer owns every object it creates. Objects are released in the reverse
// of their creation order, and the creation order is chosen so that nothing is
// ever destroyed before the objects which depend on it:
//
//	pipeline, pipeline layout, framebuffers, image views, render pass,
//	swapchain, shader modules, command pool, semaphores
//
// The loop keeps no per-frame completion fence unless Options.FenceFrames is
// set. Without it the command pool reset at the top of a frame is not ordered
// against the GPU finishing the previous frame's command buffer. The submission
// also waits for the acquired image only at the bottom of the pipeline, which
// leaves the color attachment writes unordered against the presentation engine.
// FenceFrames moves that wait to the color attachment output stage.
package frame
