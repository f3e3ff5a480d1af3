package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/mmr-tortoise/wtd/internal/buildplan"
	"github.com/mmr-tortoise/wtd/internal/clierr"
	"github.com/mmr-tortoise/wtd/internal/config"
	"github.com/mmr-tortoise/wtd/internal/extension"
	"github.com/mmr-tortoise/wtd/internal/gitcoord"
	"github.com/mmr-tortoise/wtd/internal/pathmodel"
	"github.com/mmr-tortoise/wtd/internal/progress"
	"github.com/mmr-tortoise/wtd/internal/reconcile"
	"github.com/mmr-tortoise/wtd/internal/resolve"
	"github.com/mmr-tortoise/wtd/internal/specifier"
	"github.com/mmr-tortoise/wtd/internal/supervisor"
)

func runReconcile(ctx context.Context, rawSpec string, command []string, flags *rootFlags) error {
	spec, err := specifier.Parse(rawSpec)
	if err != nil {
		return err
	}

	cfg := config.FromEnvironment()
	paths := pathmodel.Resolve(cfg.CacheDir, pathmodel.Specifier{
		Owner:      spec.Owner,
		Repo:       spec.Repo,
		SafeBranch: spec.SafeBranch(),
	})

	git := gitcoord.New()
	remoteURL := fmt.Sprintf("https://github.com/%s/%s.git", spec.Owner, spec.Repo)

	step := progress.Start("syncing git worktree")
	warning, err := git.EnsureBare(remoteURL, paths.BareClone)
	if err != nil {
		step.Failed("git sync failed")
		return err
	}
	if warning != "" {
		progress.Warn("fetch failed, using cached bare clone: %s", warning)
	}
	if err := git.EnsureWorktree(paths.BareClone, paths.Worktree, spec.Branch, ""); err != nil {
		step.Failed("git sync failed")
		return err
	}
	step.Done("worktree ready at " + paths.Worktree)

	noContainer := flags.noContainer || flags.noDocker
	if noContainer && !flags.install {
		return nil
	}

	catalog, err := extension.Load(paths.Worktree)
	if err != nil {
		return err
	}

	var autoDetected []string
	for _, m := range catalog.All() {
		if m.Matches(paths.Worktree) {
			autoDetected = append(autoDetected, m.Name)
		}
	}

	resolved, err := resolve.Resolve(catalog, resolve.Options{
		AutoDetected: autoDetected,
		Requested:    flags.extensions,
		NoGUI:        flags.noGUI,
		NoGPU:        flags.noGPU,
	})
	if err != nil {
		return err
	}

	rebuildSalt := ""
	if flags.rebuild {
		rebuildSalt = fmt.Sprintf("-rebuild-%d", time.Now().UnixNano())
	}
	plan := buildplan.Build(cfg.BaseImage, spec.ContainerName(), resolved, rebuildSalt)
	imageTag := spec.ContainerName() + ":" + plan.FinalIdentity[:12]

	if _, err := buildplan.WriteIfChanged(paths.Dockerfile, buildplan.Dockerfile(plan)); err != nil {
		return clierr.Wrap("BuildFailed", clierr.ExitBuild, "writing Dockerfile", err)
	}
	composeLabels := supervisor.BuildLabels(supervisor.Identity{
		Owner: spec.Owner, Repo: spec.Repo, Branch: spec.Branch,
		Subfolder: spec.Subfolder, WorktreePath: paths.Worktree, PlanIdentity: plan.FinalIdentity,
	})
	composeYAML, err := buildplan.ComposeYAML(plan, imageTag, composeLabels)
	if err != nil {
		return clierr.Wrap("BuildFailed", clierr.ExitBuild, "rendering compose file", err)
	}
	if _, err := buildplan.WriteIfChanged(paths.ComposeFile, composeYAML); err != nil {
		return clierr.Wrap("BuildFailed", clierr.ExitBuild, "writing compose file", err)
	}
	var platforms []string
	if flags.platforms != "" {
		for _, p := range strings.Split(flags.platforms, ",") {
			platforms = append(platforms, fmt.Sprintf("%q", strings.TrimSpace(p)))
		}
	}
	bakeHCL, err := buildplan.BakeHCL(buildplan.BakeInput{
		ContainerName:  spec.ContainerName(),
		ImageTag:       imageTag,
		Platforms:      strings.Join(platforms, ", "),
		BuildxCacheDir: paths.BuildxCacheDir,
		CacheRegistry:  cfg.CacheRegistry,
		NoCache:        flags.noCache,
	})
	if err != nil {
		return clierr.Wrap("BuildFailed", clierr.ExitBuild, "rendering bake file", err)
	}
	if _, err := buildplan.WriteIfChanged(paths.BakeFile, bakeHCL); err != nil {
		return clierr.Wrap("BuildFailed", clierr.ExitBuild, "writing bake file", err)
	}

	client, err := supervisor.NewClient()
	if err != nil {
		return err
	}
	defer client.Close()

	imagePresent, err := supervisor.ImagePresent(ctx, client, imageTag)
	if err != nil {
		return err
	}

	identity := supervisor.Identity{
		Owner: spec.Owner, Repo: spec.Repo, Branch: spec.Branch,
		Subfolder: spec.Subfolder, WorktreePath: paths.Worktree, PlanIdentity: plan.FinalIdentity,
	}
	existing, err := supervisor.Find(ctx, client, identity)
	if err != nil {
		return err
	}

	var containerState reconcile.ContainerState
	identityMatches := false
	switch existing.State {
	case supervisor.StateRunning:
		containerState = reconcile.ContainerRunning
		identityMatches = existing.Identity.PlanIdentity == plan.FinalIdentity
	case supervisor.StateStopped:
		containerState = reconcile.ContainerStopped
		identityMatches = existing.Identity.PlanIdentity == plan.FinalIdentity
	default:
		containerState = reconcile.ContainerAbsent
	}

	mode := reconcile.ModeAttach
	if len(command) > 0 {
		mode = reconcile.ModeRun
	}
	if flags.install {
		mode = reconcile.ModeAttach
		noContainer = true
	}

	decision := reconcile.Decide(reconcile.Inputs{
		Mode:                     mode,
		Rebuild:                  flags.rebuild,
		NoContainer:              noContainer,
		ImagePresent:             imagePresent,
		ImageIdentityMatches:     imagePresent && identityMatches,
		ContainerState:           containerState,
		ContainerIdentityMatches: identityMatches,
	})

	workingDir := "/workspace"
	if spec.Subfolder != "" {
		workingDir = path.Join("/workspace", spec.Subfolder)
	}

	sup := &dockerSupervisor{
		client:   client,
		bakeDir:  paths.Worktree,
		bakeFile: paths.BakeFile,
		target:   spec.ContainerName(),
		builder:  flags.builder,
		create: supervisor.CreateSpec{
			Name:  spec.ContainerName(),
			Image: imageTag,
			Mounts: []supervisor.Mount{
				{HostPath: paths.Worktree, ContainerPath: "/workspace"},
			},
			Labels:     supervisor.BuildLabels(identity),
			WorkingDir: workingDir,
		},
		workingDir: workingDir,
	}

	addHostMounts(&sup.create, resolved)

	result, err := reconcile.Execute(ctx, decision, reconcile.Target{
		RemoteURL:            remoteURL,
		BarePath:             paths.BareClone,
		WorktreePath:         paths.Worktree,
		Branch:               spec.Branch,
		ExistingContainerID:  existing.ID,
		Command:              command,
	}, git, sup)
	if err != nil {
		return err
	}

	slog.Debug("reconcile complete", "container", result.ContainerID, "exit", result.ExitCode)
	if result.ExitCode != 0 {
		os.Exit(result.ExitCode)
	}
	return nil
}

func addHostMounts(spec *supervisor.CreateSpec, resolved []extension.Manifest) {
	home, _ := os.UserHomeDir()
	seen := map[string]bool{}
	for _, m := range resolved {
		for _, mount := range m.HostMounts() {
			if seen[mount] {
				continue
			}
			seen[mount] = true
			switch mount {
			case "ssh":
				spec.Mounts = append(spec.Mounts, supervisor.Mount{
					HostPath: home + "/.ssh", ContainerPath: "/root/.ssh", ReadOnly: true,
				})
			case "gitconfig":
				spec.Mounts = append(spec.Mounts, supervisor.Mount{
					HostPath: home + "/.gitconfig", ContainerPath: "/root/.gitconfig", ReadOnly: true,
				})
			case "x11-socket":
				spec.Mounts = append(spec.Mounts, supervisor.Mount{
					HostPath: "/tmp/.X11-unix", ContainerPath: "/tmp/.X11-unix",
				})
			}
		}
	}
}
