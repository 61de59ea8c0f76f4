package kube

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"tenant-provisioning-service/internal/config"
	"tenant-provisioning-service/internal/core/domain"
	output "tenant-provisioning-service/internal/core/ports/output"
)

const rolloutPollInterval = 2 * time.Second

// Provisioner is the StageRunner backed by a Kubernetes cluster. It performs
// only the thin cluster calls each stage needs; sequencing and outcome
// recording stay with the engine.
type Provisioner struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
	enabled   bool
}

// NewProvisioner creates the stage runner. When kubernetes integration is
// disabled the runner reports unavailable and the engine runs record-only.
func NewProvisioner(cfg *config.KubernetesConfig) (*Provisioner, error) {
	if !cfg.Enabled {
		return &Provisioner{enabled: false}, nil
	}

	restCfg, err := buildRESTConfig(cfg)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create kubernetes clientset: %w", err)
	}
	dyn, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	return &Provisioner{clientset: clientset, dynamic: dyn, enabled: true}, nil
}

func (p *Provisioner) IsAvailable() bool {
	return p.enabled
}

func (p *Provisioner) RunStage(ctx context.Context, stage domain.Stage, execution *domain.DeploymentExecution, manifests map[string]string) error {
	namespace := tenantNamespace(execution.TenantName)

	switch stage.Name {
	case "namespace creation":
		return p.createNamespace(ctx, namespace, execution)
	case "manifest validation":
		return validateManifests(manifests)
	case "manifest apply":
		return p.applyManifests(ctx, namespace, manifests)
	case "service rollout", "health check":
		return p.waitForWorkloads(ctx, namespace)
	default:
		log.WithField("stage", stage.Name).Debug("no cluster work for stage")
		return nil
	}
}

func (p *Provisioner) createNamespace(ctx context.Context, namespace string, execution *domain.DeploymentExecution) error {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name: namespace,
			Labels: map[string]string{
				"tenant-id": execution.TenantID.String(),
			},
		},
	}

	_, err := p.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create namespace %s: %w", namespace, err)
	}
	return nil
}

func validateManifests(manifests map[string]string) error {
	for name, content := range manifests {
		var doc map[string]any
		if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
			return fmt.Errorf("manifest %s is not valid yaml: %w", name, err)
		}
		if doc["kind"] == nil || doc["apiVersion"] == nil {
			return fmt.Errorf("manifest %s is missing kind or apiVersion", name)
		}
	}
	return nil
}

func (p *Provisioner) applyManifests(ctx context.Context, namespace string, manifests map[string]string) error {
	for name, content := range manifests {
		var doc map[string]any
		if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
			return fmt.Errorf("decode manifest %s: %w", name, err)
		}

		obj := &unstructured.Unstructured{Object: doc}
		gvr, namespaced := resourceFor(obj.GroupVersionKind())

		var err error
		if namespaced {
			_, err = p.dynamic.Resource(gvr).Namespace(namespace).Create(ctx, obj, metav1.CreateOptions{})
		} else {
			_, err = p.dynamic.Resource(gvr).Create(ctx, obj, metav1.CreateOptions{})
		}
		if apierrors.IsAlreadyExists(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("apply manifest %s: %w", name, err)
		}
	}
	return nil
}

// waitForWorkloads polls the namespace until every deployment reports its
// replicas available. The context deadline bounds the wait.
func (p *Provisioner) waitForWorkloads(ctx context.Context, namespace string) error {
	ticker := time.NewTicker(rolloutPollInterval)
	defer ticker.Stop()

	for {
		deployments, err := p.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("list deployments in %s: %w", namespace, err)
		}

		allReady := true
		for _, deployment := range deployments.Items {
			if deployment.Status.AvailableReplicas < deployment.Status.Replicas {
				allReady = false
				break
			}
		}
		if allReady {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// resourceFor maps a GVK to its resource by pluralizing the kind. Good
// enough for the core workload kinds the manifest generator emits.
func resourceFor(gvk schema.GroupVersionKind) (schema.GroupVersionResource, bool) {
	kind := strings.ToLower(gvk.Kind)
	plural := kind + "s"
	if strings.HasSuffix(kind, "ss") {
		plural = kind + "es"
	}

	namespaced := kind != "namespace" && kind != "clusterrole" && kind != "persistentvolume"
	return gvk.GroupVersion().WithResource(plural), namespaced
}

func tenantNamespace(tenantName string) string {
	name := strings.ToLower(tenantName)
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '-'
	}, name)
	return "tenant-" + strings.Trim(name, "-")
}

var _ output.StageRunner = (*Provisioner)(nil)
