// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rust

import (
	"strings"

	"github.com/gogpu/vkbind/registry"
)

// signature is the rendered parameter list of a command.
type signature struct {
	params string // "a: T, b: U"
	args   string // "a, b"
	result string // " -> R" or ""
}

func (w *Writer) signature(cmd *registry.Command) (signature, error) {
	params := make([]string, 0, len(cmd.Params))
	args := make([]string, 0, len(cmd.Params))
	for i := range cmd.Params {
		p := &cmd.Params[i]
		name, err := w.identifier(p.Name, cmd.Name)
		if err != nil {
			return signature{}, err
		}
		typ, err := fieldType(p)
		if err != nil {
			return signature{}, err
		}
		params = append(params, name+": "+typ)
		args = append(args, name)
	}

	var sig signature
	sig.params = strings.Join(params, ", ")
	sig.args = strings.Join(args, ", ")
	if r := returnType(cmd.ReturnType); r != "" {
		sig.result = " -> " + r
	}
	return sig, nil
}

// writeCoreCommands writes the foreign block declaring every core command.
func (w *Writer) writeCoreCommands() error {
	w.writeLine("#[cfg_attr(windows, link(name = %q))]", w.options.WindowsLibrary)
	w.writeLine("#[cfg_attr(not(windows), link(name = %q))]", w.options.Library)
	w.writeLine("extern \"system\" {")
	w.pushIndent()
	for _, cmd := range w.res.CoreCommands {
		sig, err := w.signature(cmd)
		if err != nil {
			return err
		}
		w.writeLine("pub fn %s(%s)%s;", cmd.Name, sig.params, sig.result)
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
	return nil
}

// tableField returns the table field name of an extension command.
func (w *Writer) tableField(name string) string {
	if field := strings.TrimPrefix(name, w.options.CommandPrefix); field != "" {
		return field
	}
	return name
}

// writeExtensionTable writes the function-pointer table of extension
// commands, its loading constructor and one accessor per command.
func (w *Writer) writeExtensionTable() error {
	if !w.hasCoreCommand(w.options.ProcAddrCommand) {
		w.logger.Warn("proc-address command is not a core command", "command", w.options.ProcAddrCommand)
	}

	sigs := make([]signature, len(w.res.ExtCommands))
	for i, gc := range w.res.ExtCommands {
		sig, err := w.signature(gc.Command)
		if err != nil {
			return err
		}
		sigs[i] = sig
	}

	w.writeLine("pub struct %s {", w.tableName)
	w.pushIndent()
	for i, gc := range w.res.ExtCommands {
		w.writeCfg(gc.Gates)
		w.writeLine("pub %s: Option<unsafe extern \"system\" fn(%s)%s>,",
			w.tableField(gc.Command.Name), sigs[i].params, sigs[i].result)
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")

	w.writeLine("impl %s {", w.tableName)
	w.pushIndent()

	w.writeLine("pub unsafe fn new(instance: VkInstance) -> %s {", w.tableName)
	w.pushIndent()
	w.writeLine("%s {", w.tableName)
	w.pushIndent()
	for _, gc := range w.res.ExtCommands {
		w.writeCfg(gc.Gates)
		w.writeLine("%s: ::std::mem::transmute(%s(instance, b\"%s\\0\".as_ptr() as *const c_char)),",
			w.tableField(gc.Command.Name), w.options.ProcAddrCommand, gc.Command.Name)
	}
	w.popIndent()
	w.writeLine("}")
	w.popIndent()
	w.writeLine("}")

	for i, gc := range w.res.ExtCommands {
		field := w.tableField(gc.Command.Name)
		w.writeLine("")
		w.writeCfg(gc.Gates)
		if sigs[i].params == "" {
			w.writeLine("pub unsafe fn %s(&self)%s {", field, sigs[i].result)
		} else {
			w.writeLine("pub unsafe fn %s(&self, %s)%s {", field, sigs[i].params, sigs[i].result)
		}
		w.pushIndent()
		w.writeLine("(self.%s.expect(\"%s is not loaded\"))(%s)", field, gc.Command.Name, sigs[i].args)
		w.popIndent()
		w.writeLine("}")
	}

	w.popIndent()
	w.writeLine("}")
	return nil
}

func (w *Writer) hasCoreCommand(name string) bool {
	for _, cmd := range w.res.CoreCommands {
		if cmd.Name == name {
			return true
		}
	}
	return false
}
