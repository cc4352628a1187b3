// Package mdx compiles MDX documents into serializable render descriptors.
//
// Compilation runs in three steps:
//   - The source scanner resolves {expressions} against a Scope and replaces
//     JSX component tags with Private Use Area markers, leaving fenced code
//     and inline code untouched.
//   - The resulting Markdown is rendered by a pipeline.HTMLConverter that
//     keeps raw HTML, and headings receive anchor links.
//   - The HTML tree is split at the markers into a Descriptor: runs of plain
//     markup become html nodes, components become component nodes carrying
//     their props and children.
//
// Expressions are limited to literals and member paths such as
// {post.author.name} or {items[0]}; JavaScript evaluation, import and
// export are rejected. Output is not sanitized: MDX sources are trusted.
package mdx
