package core

// CommandBuffer holds pending command text awaiting dispatch (§3/§4.4.4).
// Text reaches it via three modes: ExecNow bypasses it entirely, ExecInsert
// prepends (runs before anything already queued), ExecAppend appends (runs
// after). It is a plain string queue, not the arena/handle style used by
// the registries, since its contents are transient text rather than
// long-lived named entries.
type CommandBuffer struct {
	pending string
}

// NewCommandBuffer creates an empty buffer.
func NewCommandBuffer() *CommandBuffer { return &CommandBuffer{} }

// Insert prepends text so it executes before whatever is already queued.
func (b *CommandBuffer) Insert(text string) {
	if text == "" {
		return
	}
	if b.pending == "" {
		b.pending = text
		return
	}
	b.pending = text + "\n" + b.pending
}

// Append queues text to run after whatever is already pending.
func (b *CommandBuffer) Append(text string) {
	if text == "" {
		return
	}
	if b.pending == "" {
		b.pending = text
		return
	}
	b.pending = b.pending + "\n" + text
}

// Empty reports whether the buffer has no pending text.
func (b *CommandBuffer) Empty() bool { return b.pending == "" }

// Clear discards all pending text.
func (b *CommandBuffer) Clear() { b.pending = "" }

// drain removes and returns all pending text, leaving the buffer empty. It
// does not itself perform quote-aware splitting; callers combine it with
// ExtractNextCommand when the text may hold more than one command.
func (b *CommandBuffer) drain() string {
	text := b.pending
	b.pending = ""
	return text
}
