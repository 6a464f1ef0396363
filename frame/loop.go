package frame

import (
	"context"

	"github.com/pkg/errors"

	"vulkan-triangle/gpu"
)

// ErrImageIndex is returned when the swapchain hands out an image index with
// no framebuffer behind it.
var ErrImageIndex = errors.New("acquired image index out of range")

// defaultClearColor is opaque black.
var defaultClearColor = gpu.ClearColor{0, 0, 0, 1}

// Run draws frames until the window reports a close request or an Escape key
// press, or until ctx is done. Quit requests are only looked at between
// frames. A frame that fails stops the loop with its error.
func (r *Renderer) Run(ctx context.Context, events EventSource) error {
	logger := gpu.Logger()
	logger.Info("entering the frame loop")

	for {
		if quitRequested(events.PollEvents()) || ctx.Err() != nil {
			if err := r.transition(Quitting); err != nil {
				return err
			}

			logger.Info("quitting", "frames", r.frames)
			return nil
		}

		if err := r.DrawFrame(); err != nil {
			return errors.Wrapf(err, "drawing frame %d", r.frames)
		}
	}
}

// DrawFrame acquires a swapchain image, records and submits the triangle into
// it and presents it.
func (r *Renderer) DrawFrame() error {
	if err := r.transition(Acquiring); err != nil {
		return err
	}

	if r.inFlightFence != 0 {
		if err := r.dev.WaitForFence(r.inFlightFence, gpu.Infinite); err != nil {
			return errors.Wrap(err, "waiting for the previous frame")
		}
		if err := r.dev.ResetFence(r.inFlightFence); err != nil {
			return errors.Wrap(err, "resetting in flight fence")
		}
	}

	if err := r.dev.ResetCommandPool(r.commandPool); err != nil {
		return errors.Wrap(err, "resetting command pool")
	}

	imageIndex, err := r.dev.AcquireImage(r.swapchain, gpu.Infinite, r.frameSemaphore)
	if err != nil {
		return errors.Wrap(err, "failed to acquire frame")
	}
	if int(imageIndex) >= len(r.framebuffers) {
		return errors.Wrapf(ErrImageIndex, "index %d with %d framebuffers",
			imageIndex, len(r.framebuffers))
	}

	if err := r.transition(Recording); err != nil {
		return err
	}

	commandBuffer, err := r.recordCommandBuffer(imageIndex)
	if err != nil {
		return errors.Wrap(err, "recording command buffer")
	}

	submission := gpu.Submission{
		Wait: []gpu.SemaphoreWait{
			{Semaphore: r.frameSemaphore, Stages: r.waitStage()},
		},
		Signal:         []gpu.Semaphore{r.presentSemaphore},
		CommandBuffers: []gpu.CommandBuffer{commandBuffer},
	}
	if err := r.dev.Submit(submission, r.inFlightFence); err != nil {
		return errors.Wrap(err, "queue submit")
	}

	if err := r.transition(Submitted); err != nil {
		return err
	}

	if err := r.transition(Presenting); err != nil {
		return err
	}

	err = r.dev.Present(r.swapchain, imageIndex, []gpu.Semaphore{r.presentSemaphore})
	if err != nil {
		return errors.Wrap(err, "present failed")
	}

	r.frames++
	gpu.Logger().Debug("frame presented", "frame", r.frames, "image", imageIndex)

	return r.transition(Idle)
}

// waitStage is the stage at which the submission waits for the acquired image.
// Without fenced frames the wait sits at the bottom of the pipeline, so color
// writes are not ordered after the presentation engine releases the image.
func (r *Renderer) waitStage() gpu.PipelineStage {
	if r.opts.FenceFrames {
		return gpu.StageColorAttachmentOutput
	}
	return gpu.StageBottomOfPipe
}

func (r *Renderer) recordCommandBuffer(imageIndex uint32) (gpu.CommandBuffer, error) {
	commandBuffer, err := r.dev.AcquireCommandBuffer(r.commandPool)
	if err != nil {
		return 0, errors.Wrap(err, "acquiring command buffer")
	}

	if err := r.dev.BeginCommandBuffer(commandBuffer); err != nil {
		return 0, errors.Wrap(err, "cannot begin command buffer")
	}

	area := gpu.Rect{X: 0, Y: 0, Extent: r.extent}

	r.dev.SetViewport(commandBuffer, gpu.FullViewport(area))
	r.dev.SetScissor(commandBuffer, area)
	r.dev.BindGraphicsPipeline(commandBuffer, r.pipeline)

	r.dev.BeginRenderPass(
		commandBuffer,
		r.renderPass,
		r.framebuffers[imageIndex],
		area,
		[]gpu.ClearColor{r.clear},
	)
	r.dev.Draw(commandBuffer, gpu.Range{Start: 0, End: 3}, gpu.Range{Start: 0, End: 1})
	r.dev.EndRenderPass(commandBuffer)

	if err := r.dev.EndCommandBuffer(commandBuffer); err != nil {
		return 0, errors.Wrap(err, "recording commands to buffer failed")
	}

	return commandBuffer, nil
}

func (r *Renderer) transition(to State) error {
	from := r.state
	if !CanTransition(from, to) {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", from, to)
	}

	r.state = to
	if r.opts.Observer != nil {
		r.opts.Observer(Transition{From: from, To: to})
	}

	return nil
}
