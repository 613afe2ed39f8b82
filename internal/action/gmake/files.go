package gmake

import (
	"strings"

	"github.com/simonhull/firebird-suite/nest/internal/pathutil"
	"github.com/simonhull/firebird-suite/nest/internal/project"
	"github.com/simonhull/firebird-suite/nest/internal/render"
	"github.com/simonhull/firebird-suite/nest/internal/session"
)

// fileLists writes the make variables that sort files by build action.
func (r *run) fileLists(_ *session.Session, prj *project.Project, strm session.Stream) error {
	var sources, embedded, embeddedCmd, linked, linkedCmd, content []string

	for _, f := range prj.Files() {
		switch f.Action() {
		case project.Code:
			sources = append(sources, r.sourcePath(prj, f.Path))
		case project.EmbeddedResource:
			name, err := resourceName(prj, f.Path)
			if err != nil {
				return err
			}
			embedded = append(embedded, name)
			embeddedCmd = append(embeddedCmd, "/resource:"+name)
		case project.LinkedResource:
			name, err := resourceName(prj, f.Path)
			if err != nil {
				return err
			}
			linked = append(linked, name)
			linkedCmd = append(linkedCmd, "/linkresource:"+name)
		case project.Content:
			content = append(content, rebase(prj, f.Path))
		}
	}

	var copyLocal []string
	for _, link := range prj.ValuesFor(firstConfig(prj), project.Links) {
		if _, ok := localAssembly(prj, link); ok {
			copyLocal = append(copyLocal, "$(BINDIR)/"+link+".dll")
		}
	}

	printList(strm, "SOURCES", sources)
	printList(strm, "EMBEDDEDFILES", embedded)
	printList(strm, "EMBEDDEDCOMMAND", embeddedCmd)
	printList(strm, "LINKEDFILES", linked)
	printList(strm, "LINKEDCOMMAND", linkedCmd)
	printList(strm, "CONTENTFILES", content)
	printList(strm, "COPYLOCALFILES", copyLocal)

	strm.Print("COMPILECOMMAND := $(SOURCES) $(EMBEDDEDCOMMAND) $(LINKEDCOMMAND)\n\n")

	strm.Print("CMD := $(subst \\,\\\\,$(ComSpec)$(COMSPEC))\n")
	strm.Print("ifeq (,$(CMD))\n")
	strm.Print("  CMD_MKOUTDIR := mkdir -p $(OUTDIR)\n")
	strm.Print("else\n")
	strm.Print("  CMD_MKOUTDIR := $(CMD) /c if not exist $(subst /,\\\\,$(OUTDIR)) mkdir $(subst /,\\\\,$(OUTDIR))\n")
	strm.Print("endif\n\n")
	return nil
}

// rules writes the build, copy, clean and resource targets.
func (r *run) rules(_ *session.Session, prj *project.Project, strm session.Stream) error {
	contentTargets := contentTargets(prj)

	strm.Print(".PHONY: clean\n\n")
	strm.Print("all: \\\n")
	strm.Print("\t$(OUTDIR)/$(TARGET) \\\n")
	for _, t := range contentTargets {
		strm.Print("\t%s \\\n", t)
	}
	strm.Print("\n")

	strm.Print("$(OUTDIR)/$(TARGET): $(SOURCES) $(EMBEDDEDFILES) $(LINKEDFILES) $(COPYLOCALFILES) $(DEPS)\n")
	strm.Print("\t-@$(CMD_MKOUTDIR)\n")
	strm.Print("\t@$(CSC) /nologo /out:$@ /lib:$(BINDIR) $(FLAGS) $(COMPILECOMMAND)\n\n")

	for _, f := range prj.Files() {
		if f.Is(project.LinkedResource) || f.Is(project.Content) {
			strm.Print("$(BINDIR)/%s: %s\n\t-@cp -fR $^ $@\n\n", pathutil.Name(f.Path), rebase(prj, f.Path))
		}
	}

	for _, link := range prj.ValuesFor(firstConfig(prj), project.Links) {
		if path, ok := localAssembly(prj, link); ok {
			strm.Print("$(BINDIR)/%s.dll: %s\n\t@echo Copying %s.dll\n\t-@cp $^ $@\n\n", link, path, link)
		}
	}

	strm.Print("clean:\n")
	strm.Print("\t@echo Cleaning %s\n", prj.Name)
	strm.Print("\t-@rm -f $(OUTDIR)/$(TARGET)\n")
	strm.Print("\t-@rm -fR $(OBJDIR)\n")
	for _, t := range contentTargets {
		strm.Print("\t-@rm -f %s\n", t)
	}
	strm.Print("\n")

	for _, f := range prj.Files() {
		if !strings.EqualFold(pathutil.Extension(f.Path), ".resx") {
			continue
		}
		name, err := resourceName(prj, f.Path)
		if err != nil {
			return err
		}
		strm.Print("%s: %s\n", name, rebase(prj, f.Path))
		strm.Print("\t-@if [ ! -d $(OBJDIR) ]; then mkdir -p $(OBJDIR); fi\n")
		strm.Print("\t$(RESGEN) $^ $@\n\n")
	}
	return nil
}

func printList(strm session.Stream, name string, items []string) {
	strm.Print("%s := \\\n", name)
	for _, it := range items {
		strm.Print("\t%s \\\n", it)
	}
	strm.Print("\n")
}

func contentTargets(prj *project.Project) []string {
	var out []string
	for _, f := range prj.Files() {
		if f.Is(project.LinkedResource) || f.Is(project.Content) {
			out = append(out, "$(BINDIR)/"+pathutil.Name(f.Path))
		}
	}
	return out
}

// sourcePath writes a source file the way the compiler expects it: with
// backslashes (escaped for make) when targeting Windows.
func (r *run) sourcePath(prj *project.Project, p string) string {
	p = rebase(prj, p)
	if r.opts.TargetOS() == "windows" {
		return render.WindowsPath(p)
	}
	return p
}

// resourceName mimics the names Visual Studio gives compiled resources:
// .resx files become <objdir>/<namespace>.<dir>.<name>.resources with the
// directory separators turned into dots. Other files keep their path.
func resourceName(prj *project.Project, p string) (string, error) {
	if !strings.EqualFold(pathutil.Extension(p), ".resx") {
		return rebase(prj, p), nil
	}

	target, err := targetName(prj)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(pathutil.Basename(target))
	b.WriteString(".")
	if dir := pathutil.Dir(p); dir != "" {
		b.WriteString(dir)
		b.WriteString(".")
	}
	b.WriteString(pathutil.Basename(p))
	b.WriteString(".resources")

	return objDir(prj) + "/" + strings.ReplaceAll(b.String(), "/", "."), nil
}
