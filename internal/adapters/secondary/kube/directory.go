package kube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"tenant-provisioning-service/internal/config"
	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

const gpuResourceName = "nvidia.com/gpu"

const candidatesCacheKey = "candidates"

// Directory is the infrastructure directory backed by a Kubernetes cluster:
// candidate capacity is the sum of node allocatable resources plus
// provisioned persistent volumes. Listings are cached because cluster
// capacity changes far slower than the wizard polls.
type Directory struct {
	clientset kubernetes.Interface
	cluster   string
	provider  domain.CloudProvider
	region    string
	cache     *ttlcache.Cache[string, []*domain.InfrastructureCandidate]
}

// NewDirectory creates the directory adapter from the kubernetes config.
func NewDirectory(cfg *config.KubernetesConfig) (*Directory, error) {
	restCfg, err := buildRESTConfig(cfg)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create kubernetes clientset: %w", err)
	}

	return newDirectory(clientset, cfg), nil
}

func newDirectory(clientset kubernetes.Interface, cfg *config.KubernetesConfig) *Directory {
	cache := ttlcache.New[string, []*domain.InfrastructureCandidate](
		ttlcache.WithTTL[string, []*domain.InfrastructureCandidate](cfg.CacheTTL),
		ttlcache.WithDisableTouchOnHit[string, []*domain.InfrastructureCandidate](),
	)

	return &Directory{
		clientset: clientset,
		cluster:   cfg.ClusterName,
		provider:  domain.CloudProvider(cfg.Provider),
		region:    cfg.Region,
		cache:     cache,
	}
}

func buildRESTConfig(cfg *config.KubernetesConfig) (*rest.Config, error) {
	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}
	return restCfg, nil
}

func (d *Directory) ListCandidates(ctx context.Context) ([]*domain.InfrastructureCandidate, error) {
	if item := d.cache.Get(candidatesCacheKey); item != nil {
		return item.Value(), nil
	}

	candidate, err := d.inspectCluster(ctx)
	if err != nil {
		return nil, err
	}

	candidates := []*domain.InfrastructureCandidate{candidate}
	d.cache.Set(candidatesCacheKey, candidates, ttlcache.DefaultTTL)
	return candidates, nil
}

func (d *Directory) GetCandidate(ctx context.Context, id string) (*domain.InfrastructureCandidate, error) {
	candidates, err := d.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		if candidate.ID == id {
			return candidate, nil
		}
	}
	return nil, domain.ErrInfrastructureNotFound
}

// inspectCluster sums node allocatable and persistent volume capacity into
// one candidate. Node and volume listings run concurrently.
func (d *Directory) inspectCluster(ctx context.Context) (*domain.InfrastructureCandidate, error) {
	var nodes *corev1.NodeList
	var volumes *corev1.PersistentVolumeList

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nodes, err = d.clientset.CoreV1().Nodes().List(gctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("list nodes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		volumes, err = d.clientset.CoreV1().PersistentVolumes().List(gctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("list persistent volumes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidate := &domain.InfrastructureCandidate{
		ID:       d.cluster,
		Name:     d.cluster,
		Provider: d.provider,
		Region:   d.region,
		Status:   domain.InfraStatusInactive,
	}

	ready := 0
	schedulable := 0
	for _, node := range nodes.Items {
		alloc := node.Status.Allocatable
		candidate.CPUCores += int(alloc.Cpu().Value())
		candidate.MemoryGB += int(alloc.Memory().Value() / (1 << 30))
		if gpu, ok := alloc[gpuResourceName]; ok {
			candidate.GPUUnits += int(gpu.Value())
		}

		if nodeReady(node) {
			ready++
		}
		if !node.Spec.Unschedulable {
			schedulable++
		}
	}

	for _, volume := range volumes.Items {
		if capacity, ok := volume.Spec.Capacity[corev1.ResourceStorage]; ok {
			candidate.StorageGB += int(capacity.Value() / (1 << 30))
		}
	}

	switch {
	case ready > 0 && schedulable > 0:
		candidate.Status = domain.InfraStatusActive
	case ready > 0:
		candidate.Status = domain.InfraStatusMaintenance
	}

	return candidate, nil
}

func nodeReady(node corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

var _ output.InfrastructureDirectory = (*Directory)(nil)
